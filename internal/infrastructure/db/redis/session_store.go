package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
)

const sessionKeyPrefix = "crm:session:"

// SessionStore keeps one serialized identity per session under
// crm:session:<session_id>, expiring with the session TTL.
type SessionStore struct {
	client redis.UniversalClient
	log    zerolog.Logger
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client redis.UniversalClient, log zerolog.Logger) *SessionStore {
	return &SessionStore{client: client, log: log}
}

// Get returns nil for a missing, expired, or undecodable session.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Identity, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	id, ok := domain.DecodeIdentity(raw)
	if !ok {
		metrics.SessionEventsTotal.WithLabelValues("corrupt").Inc()
		s.log.Warn().Str("session_id", sessionID).Msg("corrupt session value treated as anonymous")
		return nil, nil
	}
	return &id, nil
}

// Set overwrites the session in a single SET, so readers never see a partial identity.
func (s *SessionStore) Set(ctx context.Context, sessionID string, id domain.Identity, ttl time.Duration) error {
	raw, err := domain.EncodeIdentity(id)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

// Clear deletes the session. Deleting a missing key is not an error.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

func (s *SessionStore) key(sessionID string) string {
	return sessionKeyPrefix + sessionID
}
