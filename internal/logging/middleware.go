package logging

import (
	"log/slog"

	"github.com/labstack/echo/v4"
)

// Middleware puts a request-scoped logger into the request context so
// services and handlers can pick it up with FromContext.
func Middleware(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := IntoContext(c.Request().Context(), l.With("request_id", reqID))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
