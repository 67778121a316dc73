package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/collegeroi/internal/artifact"
	"github.com/fyrsmithlabs/collegeroi/internal/index"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
)

// statusFor maps a selection error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, artifact.ErrInvalidHorizon):
		return http.StatusBadRequest
	case errors.Is(err, index.ErrUnknownSchool),
		errors.Is(err, index.ErrUnknownFeature),
		errors.Is(err, selection.ErrUnknownView):
		return http.StatusNotFound
	case errors.Is(err, index.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, artifact.ErrArtifactLoad):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail converts err into an echo.HTTPError. Internal errors are logged and
// replaced with a generic message.
func (s *Server) fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("selection failed",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
		return echo.NewHTTPError(status, "internal error").SetInternal(err)
	}
	if status == http.StatusServiceUnavailable {
		s.logger.Warn("artifacts unavailable",
			zap.String("uri", c.Request().RequestURI),
			zap.Error(err))
	}
	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}
