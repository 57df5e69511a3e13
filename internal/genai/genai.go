// Package genai is a small client for the Google Generative Language REST API.
//
// NewMethods binds an API key to one request function per supported endpoint.
// Each function validates its parameters, performs a single POST and returns
// either the raw JSON response or an error classified as a ValidationError,
// RemoteError or TransportError. There are no retries and no response schema
// validation; callers interpret endpoint-specific payloads themselves.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Yates-Labs/gaia/internal/metrics"
)

// Params are the arguments of one call.
type Params struct {
	// Model is the target model name, e.g. "gemini-1.5-flash". Required.
	Model string

	// Body is JSON-encoded and sent as the request body. A json.RawMessage is
	// sent verbatim.
	Body any
}

// Response is a successful call's result. Body is the response payload exactly
// as received.
type Response struct {
	Endpoint   Endpoint
	Model      string
	StatusCode int
	Body       json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Endpoint, err)
	}
	return nil
}

// Func performs one request against a bound endpoint.
type Func func(ctx context.Context, p Params) (*Response, error)

// NewFunc binds apiKey and ep into a request function.
func NewFunc(apiKey string, ep Endpoint, opts ...Option) Func {
	s := newSettings(opts)
	return func(ctx context.Context, p Params) (*Response, error) {
		start := time.Now()
		resp, err := s.do(ctx, apiKey, ep, p)
		s.observe(ep, p.Model, resp, err, time.Since(start))
		return resp, err
	}
}

func (s *settings) do(ctx context.Context, apiKey string, ep Endpoint, p Params) (*Response, error) {
	if !ep.valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("%s: %s", ErrUnknownEndpoint, ep)}
	}
	model := strings.TrimSpace(p.Model)
	if model == "" {
		return nil, &ValidationError{Msg: "Model name is required"}
	}

	payload, err := json.Marshal(p.Body)
	if err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("encode request body: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpointURL(apiKey, model, ep), bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: stripURL(err)}
	}
	defer httpResp.Body.Close()

	body, readErr := io.ReadAll(httpResp.Body)
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, newRemoteError(httpResp.StatusCode, body)
	}
	if readErr != nil {
		return nil, &TransportError{Err: fmt.Errorf("read %s response: %w", ep, readErr)}
	}
	if !json.Valid(body) {
		return nil, &TransportError{Err: fmt.Errorf("malformed %s response: body is not valid JSON", ep)}
	}

	return &Response{
		Endpoint:   ep,
		Model:      model,
		StatusCode: httpResp.StatusCode,
		Body:       json.RawMessage(body),
	}, nil
}

// endpointURL builds <base>/models/<model>:<endpoint>?key=<apiKey>.
func (s *settings) endpointURL(apiKey, model string, ep Endpoint) string {
	query := url.Values{"key": {apiKey}}
	return s.baseURL + "/models/" + url.PathEscape(model) + ":" + ep.String() + "?" + query.Encode()
}

// stripURL drops the request URL from *url.Error so the API key in the query
// string never reaches error messages or logs.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func (s *settings) observe(ep Endpoint, model string, resp *Response, err error, elapsed time.Duration) {
	if err != nil {
		s.log.Warnw("genai request failed",
			"endpoint", ep.String(),
			"model", model,
			"kind", Kind(err),
			"error", err.Error(),
			"duration", elapsed.String(),
		)
	} else {
		s.log.Debugw("genai request",
			"endpoint", ep.String(),
			"model", model,
			"status_code", resp.StatusCode,
			"duration", elapsed.String(),
		)
	}

	if !s.metrics {
		return
	}
	status := "error"
	var remote *RemoteError
	switch {
	case err == nil:
		status = strconv.Itoa(resp.StatusCode)
	case errors.As(err, &remote):
		status = strconv.Itoa(remote.StatusCode)
	}
	label := s.modelLabel(model, err)
	metrics.RequestCount.WithLabelValues(label, ep.String(), status).Inc()
	metrics.RequestDuration.WithLabelValues(label, ep.String()).Observe(elapsed.Seconds())
	if err != nil {
		metrics.ErrorCount.WithLabelValues(label, ep.String(), Kind(err)).Inc()
	}
}
