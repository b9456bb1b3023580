package ports

import (
	"context"
	"time"

	"github.com/crmsystem/console-api/internal/core/domain"
)

// SessionReader is the read side of a session store. Authorization code only
// ever needs this half.
type SessionReader interface {
	// Get returns the identity held for sessionID, or nil when the session is
	// absent, expired, or its stored value cannot be decoded. The error is
	// reserved for backend failures.
	Get(ctx context.Context, sessionID string) (*domain.Identity, error)
}

// SessionStore holds one serialized identity per console session.
type SessionStore interface {
	SessionReader
	// Set replaces whatever identity was held for sessionID.
	Set(ctx context.Context, sessionID string, id domain.Identity, ttl time.Duration) error
	// Clear removes the session. Clearing an unknown session is not an error.
	Clear(ctx context.Context, sessionID string) error
}
