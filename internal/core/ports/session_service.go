package ports

import (
	"context"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// LoginResult is handed back to the browser after a successful login.
type LoginResult struct {
	Token     string
	SessionID string
	Identity  domain.Identity
}

// SessionService owns the login/logout lifecycle of console sessions.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	// Register signs a new user up. It does not open a session.
	Register(ctx context.Context, in domain.Registration) (*domain.Identity, error)
	// Resolve maps a session token to its session id and identity. A token that
	// fails verification yields domain.ErrUnauthenticated; a valid token whose
	// session is gone resolves to a nil identity without error.
	Resolve(ctx context.Context, token string) (sessionID string, id *domain.Identity, err error)
}
