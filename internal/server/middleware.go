package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Yates-Labs/gaia/internal/metrics"

	"github.com/aidarkhanov/nanoid"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// NewTrackMiddleware tags every request with an ID, logs its outcome and
// counts its status code.
func NewTrackMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := newRequestID()
			logger := log.With("request_id", "req_"+reqID)

			cc := &Context{Context: c, Log: logger, Reqid: reqID}
			cc.Response().Header().Set("X-Request-Id", "req_"+reqID)

			start := time.Now()
			err := next(cc)
			if err != nil {
				// Commit the error response now so the logged status is the real one.
				cc.Error(err)
			}
			duration := time.Since(start)
			cc.Log.Infow("end_of_request", "status_code", fmt.Sprintf("%d", cc.Response().Status), "duration", duration.String())
			metrics.ResponseCodes.WithLabelValues(cc.Path(), fmt.Sprintf("%d", cc.Response().Status)).Inc()
			return err
		}
	}
}

// randomID is replaced in tests.
var randomID = func() (string, error) {
	return nanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 28)
}

// newRequestID returns a random ID, or a timestamp-based one if the random
// source fails.
func newRequestID() string {
	id, err := randomID()
	if err != nil || id == "" {
		return "t" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return id
}

func NewRecoverMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return emw.RecoverWithConfig(emw.RecoverConfig{
		StackSize: 1 << 10, // 1 KB
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			defer func() {
				_ = log.Sync()
			}()
			log.Errorw("Api Panic", "error", err.Error())
			return c.JSON(http.StatusInternalServerError, errorBody(http.StatusInternalServerError, "INTERNAL", "internal server error"))
		},
	})
}
