package server

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context carries the per-request logger set by the track middleware.
type Context struct {
	echo.Context
	Log   *zap.SugaredLogger
	Reqid string
}

// requestLogger returns the request-scoped logger when the track middleware
// ran, and fallback otherwise.
func requestLogger(c echo.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if cc, ok := c.(*Context); ok {
		return cc.Log
	}
	return fallback
}
