package middleware

import (
	"net/http"

	"github.com/greatbrands/ticketing/internal/dto"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorHandler turns every error reaching echo into the service's JSON
// error envelope. Unexpected errors are logged with their cause and
// collapsed to a generic message so internals do not leak to clients.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "something went wrong"

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		} else {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("unhandled error")
		}

		_ = c.JSON(code, dto.ErrorResponse{Message: msg})
	}
}
