package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
)

// Authorizer decides whether the identity held by a session may perform an
// action. It reads the session store itself, so a session cleared after the
// request was resolved is denied.
type Authorizer interface {
	SessionAllows(ctx context.Context, sessionID string, action domain.Permission) bool
}

// RequirePermission gates a route on one action. Anonymous callers get 401,
// callers whose session does not grant the action get 403. The CRM API still
// enforces its own rules behind this gate.
func RequirePermission(authz Authorizer, action domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			if !authz.SessionAllows(c.Request().Context(), SessionIDFrom(c), action) {
				metrics.AuthorizationDenialsTotal.WithLabelValues(string(action)).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
