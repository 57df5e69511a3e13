package genai

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestOutcome_HandleExactlyOnce(t *testing.T) {
	var results, errs int
	onResult := func(*Response) { results++ }
	onError := func(error) { errs++ }

	Outcome{Response: &Response{}}.Handle(onResult, onError)
	if results != 1 || errs != 0 {
		t.Errorf("success outcome: results=%d errs=%d", results, errs)
	}

	Outcome{Err: errors.New("boom")}.Handle(onResult, onError)
	if results != 1 || errs != 1 {
		t.Errorf("failure outcome: results=%d errs=%d", results, errs)
	}
}

func TestOutcome_NilCallbacks(t *testing.T) {
	// Must not panic.
	Outcome{Response: &Response{}}.Handle(nil, nil)
	Outcome{Err: errors.New("boom")}.Handle(nil, nil)
}

func TestFunc_GoDeliversOneOutcome(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{"totalTokens":1}`}
	count := NewFunc("k", CountTokens, WithHTTPClient(doer))

	ch := count.Go(context.Background(), Params{Model: "gemini-pro", Body: textBody()})

	out, ok := <-ch
	if !ok {
		t.Fatal("channel closed without an outcome")
	}
	if out.Err != nil || out.Response == nil {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if _, ok := <-ch; ok {
		t.Error("expected channel to be closed after one outcome")
	}
}

func TestFunc_GoConcurrentCalls(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{}`}
	generate := NewFunc("k", GenerateContent, WithHTTPClient(doer))

	const n = 8
	var wg sync.WaitGroup
	outcomes := make([]Outcome, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i] = <-generate.Go(context.Background(), Params{Model: "gemini-pro", Body: textBody()})
		}(i)
	}
	wg.Wait()

	for i, out := range outcomes {
		if out.Err != nil {
			t.Errorf("call %d failed: %v", i, out.Err)
		}
	}
	if doer.calls != n {
		t.Errorf("expected %d requests, got %d", n, doer.calls)
	}
}

func TestFunc_GoValidationFailure(t *testing.T) {
	doer := &fakeDoer{status: 200, body: `{}`}
	generate := NewFunc("k", GenerateContent, WithHTTPClient(doer))

	out := <-generate.Go(context.Background(), Params{Body: textBody()})
	if !errors.Is(out.Err, ErrValidation) || out.Response != nil {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}
