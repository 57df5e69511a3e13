package genai

import "context"

// Outcome is the result of one call: exactly one of Response and Err is set.
type Outcome struct {
	Response *Response
	Err      error
}

// Handle invokes onResult or onError, never both, exactly once.
// A nil callback is skipped.
func (o Outcome) Handle(onResult func(*Response), onError func(error)) {
	if o.Err != nil {
		if onError != nil {
			onError(o.Err)
		}
		return
	}
	if onResult != nil {
		onResult(o.Response)
	}
}

// Outcome performs the call and wraps its result.
func (f Func) Outcome(ctx context.Context, p Params) Outcome {
	resp, err := f(ctx, p)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Response: resp}
}

// Go starts the call on its own goroutine. The returned channel yields exactly
// one Outcome and is then closed.
func (f Func) Go(ctx context.Context, p Params) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- f.Outcome(ctx, p)
	}()
	return ch
}

// Then returns the call in continuation-passing form:
//
//	api.CountTokens.Then(ctx, params)(onResult, onError)
//
// The returned function blocks until the exchange completes and then invokes
// exactly one of the callbacks.
func (f Func) Then(ctx context.Context, p Params) func(onResult func(*Response), onError func(error)) {
	return func(onResult func(*Response), onError func(error)) {
		f.Outcome(ctx, p).Handle(onResult, onError)
	}
}
