// Package memory holds the in-process session store used in development and
// tests. Sessions do not survive a restart and are not shared between replicas.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
)

type entry struct {
	raw       []byte
	expiresAt time.Time
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	now      func() time.Time
	log      zerolog.Logger
}

func NewSessionStore(log zerolog.Logger) *SessionStore {
	return &SessionStore{sessions: make(map[string]entry), now: time.Now, log: log}
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (*domain.Identity, error) {
	s.mu.RLock()
	e, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, nil
	}

	id, ok := domain.DecodeIdentity(e.raw)
	if !ok {
		metrics.SessionEventsTotal.WithLabelValues("corrupt").Inc()
		s.log.Warn().Str("session_id", sessionID).Msg("corrupt session value treated as anonymous")
		return nil, nil
	}
	return &id, nil
}

func (s *SessionStore) Set(_ context.Context, sessionID string, id domain.Identity, ttl time.Duration) error {
	raw, err := domain.EncodeIdentity(id)
	if err != nil {
		return err
	}
	e := entry{raw: raw}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.sessions[sessionID] = e
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Ping always succeeds; it lets the memory backend sit in readiness checks.
func (s *SessionStore) Ping(context.Context) error { return nil }
