package handler

import (
	"errors"
	"net/http"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/middleware"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError writes err as {"error": ..., "fields": ...}. Internal errors
// the service has not logged yet are logged here; all of them reach the
// caller as a generic message.
func respondError(c echo.Context, err error) error {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.KindInternal && !appErr.Logged {
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		}
		if actor := middleware.ActorFrom(c); actor != nil {
			fields = append(fields, zap.Uint("user_id", actor.ID))
		}
		logger.FromEcho(c).Error("Request failed", fields...)
	}

	body := echo.Map{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	return c.JSON(appErr.Status(), body)
}

// HTTPErrorHandler renders errors that reach echo (unknown routes, errors
// returned by handlers) in the same shape as respondError.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			message = m
		}
		if he.Code >= http.StatusInternalServerError {
			logger.FromEcho(c).Error("Request failed", zap.Error(err))
		}
		_ = c.JSON(he.Code, echo.Map{"error": message})
		return
	}

	_ = respondError(c, err)
}
