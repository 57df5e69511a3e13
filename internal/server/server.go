// Package server exposes the method table over HTTP with the same URL shape
// as the Generative Language API, so existing clients can point at it
// without holding the API key themselves.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Yates-Labs/gaia/internal/genai"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second

	// MaxBodySize caps proxied request bodies, in echo's BodyLimit notation.
	MaxBodySize = "20M"
)

// Server proxies /v1beta/models/{model}:{endpoint} to a genai.Methods table.
type Server struct {
	e       *echo.Echo
	methods *genai.Methods
	log     *zap.SugaredLogger
}

// New builds the router. methods is shared by every request.
func New(methods *genai.Methods, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{e: e, methods: methods, log: log}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	base := e.Group("")
	base.Use(NewRecoverMiddleware(log))
	base.Use(NewTrackMiddleware(log))
	base.Use(emw.BodyLimit(MaxBodySize))
	base.POST("/v1beta/models/:call", s.call)

	return s
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", addr)
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.e.Shutdown(shutdownCtx)
}

// splitCall parses "gemini-1.5-flash:generateContent".
func splitCall(call string) (string, genai.Endpoint, error) {
	i := strings.LastIndex(call, ":")
	if i < 0 {
		return "", 0, &genai.ValidationError{Msg: "expected {model}:{method}"}
	}
	ep, err := genai.ParseEndpoint(call[i+1:])
	if err != nil {
		return "", 0, err
	}
	return call[:i], ep, nil
}

func (s *Server) call(c echo.Context) error {
	log := requestLogger(c, s.log)

	model, ep, err := splitCall(c.Param("call"))
	if err != nil {
		if errors.Is(err, genai.ErrUnknownEndpoint) {
			return c.JSON(http.StatusNotFound, errorBody(http.StatusNotFound, "NOT_FOUND", err.Error()))
		}
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "INVALID_ARGUMENT", err.Error()))
	}

	fn, ok := s.methods.Lookup(ep)
	if !ok {
		return c.JSON(http.StatusNotFound, errorBody(http.StatusNotFound, "NOT_FOUND", "method not available"))
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		log.Errorw("Failed to read request body", "error", err.Error())
		return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "INVALID_ARGUMENT", "failed to read request body"))
	}

	var body any
	if len(raw) > 0 {
		if !json.Valid(raw) {
			return c.JSON(http.StatusBadRequest, errorBody(http.StatusBadRequest, "INVALID_ARGUMENT", "request body is not valid JSON"))
		}
		body = json.RawMessage(raw)
	}

	resp, err := fn(c.Request().Context(), genai.Params{Model: model, Body: body})
	if err != nil {
		status := statusFor(err)
		log.Warnw("upstream call failed", "model", model, "endpoint", ep.String(), "kind", genai.Kind(err), "status", status)
		return c.JSON(status, errorBodyFor(status, err))
	}

	return c.JSONBlob(http.StatusOK, resp.Body)
}

// statusFor maps a request function error to the proxy's response status.
func statusFor(err error) int {
	var remote *genai.RemoteError
	switch {
	case errors.As(err, &remote):
		return remote.StatusCode
	case errors.Is(err, genai.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func errorBody(code int, status, message string) errorEnvelope {
	return errorEnvelope{Error: apiError{Code: code, Message: message, Status: status}}
}

func errorBodyFor(code int, err error) errorEnvelope {
	var remote *genai.RemoteError
	if errors.As(err, &remote) {
		return errorBody(code, remote.Status, remote.Error())
	}
	switch {
	case errors.Is(err, genai.ErrValidation):
		return errorBody(code, "INVALID_ARGUMENT", err.Error())
	default:
		return errorBody(code, "UNAVAILABLE", err.Error())
	}
}
