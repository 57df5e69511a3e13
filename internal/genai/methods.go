package genai

// Methods is the method table for one API key: a request function per
// endpoint. Building it performs no I/O and does not check the key; an
// invalid key surfaces as a RemoteError on the first call.
type Methods struct {
	GenerateContent       Func
	StreamGenerateContent Func
	CountTokens           Func
	EmbedContent          Func
	BatchEmbedContents    Func
}

// NewMethods binds apiKey to every endpoint.
func NewMethods(apiKey string, opts ...Option) *Methods {
	return &Methods{
		GenerateContent:       NewFunc(apiKey, GenerateContent, opts...),
		StreamGenerateContent: NewFunc(apiKey, StreamGenerateContent, opts...),
		CountTokens:           NewFunc(apiKey, CountTokens, opts...),
		EmbedContent:          NewFunc(apiKey, EmbedContent, opts...),
		BatchEmbedContents:    NewFunc(apiKey, BatchEmbedContents, opts...),
	}
}

// Lookup returns the request function bound to ep.
func (m *Methods) Lookup(ep Endpoint) (Func, bool) {
	var f Func
	switch ep {
	case GenerateContent:
		f = m.GenerateContent
	case StreamGenerateContent:
		f = m.StreamGenerateContent
	case CountTokens:
		f = m.CountTokens
	case EmbedContent:
		f = m.EmbedContent
	case BatchEmbedContents:
		f = m.BatchEmbedContents
	}
	return f, f != nil
}

// All returns the table keyed by endpoint.
func (m *Methods) All() map[Endpoint]Func {
	all := make(map[Endpoint]Func, len(endpointNames))
	for _, ep := range Endpoints() {
		if f, ok := m.Lookup(ep); ok {
			all[ep] = f
		}
	}
	return all
}
