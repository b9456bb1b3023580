package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
	"github.com/crmsystem/console-api/internal/core/ports"
)

// SessionService implements login and logout for console sessions. The
// identity lives in the session store; the token only names the session.
type SessionService struct {
	auth      ports.Authenticator
	store     ports.SessionStore
	jwtSecret string
	ttl       time.Duration
	log       zerolog.Logger
}

func NewSessionService(auth ports.Authenticator, store ports.SessionStore, jwtSecret string, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{auth: auth, store: store, jwtSecret: jwtSecret, ttl: ttl, log: log}
}

// Login exchanges credentials with the CRM API and opens a new session.
// Rejections by the API come back as *domain.APIError carrying its message.
func (s *SessionService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	id, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("login_rejected").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}
	if strings.TrimSpace(id.Username) == "" || !id.Role.Valid() {
		metrics.SessionEventsTotal.WithLabelValues("login_rejected").Inc()
		return nil, fmt.Errorf("login: role %q: %w", id.Role, domain.ErrInvalidCredentials)
	}

	sessionID := uuid.NewString()
	if err := s.store.Set(ctx, sessionID, *id, s.ttl); err != nil {
		return nil, fmt.Errorf("login: store session: %w", err)
	}

	token, err := s.generateToken(sessionID, id.Username)
	if err != nil {
		_ = s.store.Clear(ctx, sessionID)
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.SessionEventsTotal.WithLabelValues("login").Inc()
	s.log.Info().Str("username", id.Username).Str("role", string(id.Role)).Msg("session opened")

	return &ports.LoginResult{Token: token, SessionID: sessionID, Identity: *id}, nil
}

// Logout clears the session. Logging out twice is fine.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	return nil
}

// Register forwards a sign-up to the CRM API. The new user still has to log in.
func (s *SessionService) Register(ctx context.Context, in domain.Registration) (*domain.Identity, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("register: %w", domain.ErrInvalidRegistration)
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("register: role %q: %w", in.Role, domain.ErrUnknownCategory)
	}

	id, err := s.auth.Register(ctx, in)
	if err != nil {
		metrics.SessionEventsTotal.WithLabelValues("register_rejected").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.SessionEventsTotal.WithLabelValues("register").Inc()
	s.log.Info().Str("username", id.Username).Str("role", string(id.Role)).Msg("user registered")
	return id, nil
}

// Resolve validates a session token and loads the session's identity. A token
// that does not verify yields ErrUnauthenticated; a valid token whose session
// is gone yields a nil identity.
func (s *SessionService) Resolve(ctx context.Context, token string) (string, *domain.Identity, error) {
	claims := jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid || claims.ID == "" {
		return "", nil, domain.ErrUnauthenticated
	}

	id, err := s.store.Get(ctx, claims.ID)
	if err != nil {
		return claims.ID, nil, fmt.Errorf("resolve session: %w", err)
	}
	return claims.ID, id, nil
}

func (s *SessionService) generateToken(sessionID, username string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// IsRejection reports whether err is the CRM API turning the login down, as
// opposed to the API being unreachable.
func IsRejection(err error) bool {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return true
	}
	var apiErr *domain.APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}
