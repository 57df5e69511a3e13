package genai

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultBaseURL is the v1beta root of the Generative Language API.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Doer performs HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customises the request functions built by NewFunc and NewMethods.
type Option func(*settings)

type settings struct {
	baseURL   string
	client    Doer
	log       *zap.SugaredLogger
	metrics   bool
	userAgent string

	// modelLabels, when set, is the only set of models recorded by name.
	modelLabels map[string]bool
}

// OtherModel is the metric label used for models that are not recorded by name.
const OtherModel = "other"

func newSettings(opts []Option) *settings {
	s := &settings{
		baseURL: DefaultBaseURL,
		// No Timeout: a call lasts as long as the transport and ctx allow.
		client:  &http.Client{},
		log:     zap.NewNop().Sugar(),
		metrics: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithBaseURL overrides DefaultBaseURL. A trailing slash is ignored.
func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the transport used to issue requests.
func WithHTTPClient(client Doer) Option {
	return func(s *settings) {
		if client != nil {
			s.client = client
		}
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics toggles Prometheus instrumentation. It is on by default.
func WithMetrics(enabled bool) Option {
	return func(s *settings) {
		s.metrics = enabled
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(userAgent string) Option {
	return func(s *settings) {
		s.userAgent = userAgent
	}
}

// WithModelLabels restricts the model label of recorded metrics to models;
// every other model is recorded as OtherModel. Without it a model is
// recorded by name only when its call succeeds.
func WithModelLabels(models ...string) Option {
	return func(s *settings) {
		s.modelLabels = make(map[string]bool, len(models))
		for _, m := range models {
			if m = strings.TrimSpace(m); m != "" {
				s.modelLabels[m] = true
			}
		}
	}
}

// modelLabel keeps the label set bounded when model names come from clients.
func (s *settings) modelLabel(model string, err error) string {
	if s.modelLabels != nil {
		if s.modelLabels[model] {
			return model
		}
		return OtherModel
	}
	if err != nil {
		return OtherModel
	}
	return model
}
