package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/core/domain"
)

const (
	identityKey  = "identity"
	sessionIDKey = "session_id"
)

// SessionResolver maps a session token to its session id and identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, *domain.Identity, error)
}

// Session reads the bearer token and injects the session identity into the
// context. It never rejects: a missing or invalid token, an expired session or
// a store failure all continue as an anonymous request, and the permission
// gate downstream decides what anonymous callers get.
func Session(resolver SessionResolver, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			sid, id, err := resolver.Resolve(c.Request().Context(), token)
			if sid != "" {
				c.Set(sessionIDKey, sid)
			}
			if err != nil {
				log.Debug().Err(err).Msg("session not resolved; continuing anonymously")
				return next(c)
			}
			if id != nil {
				c.Set(identityKey, id)
			}
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// IdentityFrom returns the identity injected by Session, or nil for an
// anonymous request.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(identityKey).(*domain.Identity)
	return id
}

// SessionIDFrom returns the session id carried by a verified token.
func SessionIDFrom(c echo.Context) string {
	sid, _ := c.Get(sessionIDKey).(string)
	return sid
}

// WithIdentity stores id the way Session does. Handler tests use it to fake a
// logged-in caller.
func WithIdentity(c echo.Context, sessionID string, id *domain.Identity) {
	c.Set(sessionIDKey, sessionID)
	c.Set(identityKey, id)
}
