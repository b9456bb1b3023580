package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
)

const sessionCollection = "console_sessions"

// SessionStore keeps console sessions in MongoDB, one document per session.
// A TTL index on expires_at lets the server drop expired sessions; Get also
// checks the expiry because the TTL monitor only runs once a minute.
type SessionStore struct {
	col *mongo.Collection
	log zerolog.Logger
	now func() time.Time
}

func NewSessionStore(db *mongo.Database, log zerolog.Logger) *SessionStore {
	return &SessionStore{col: db.Collection(sessionCollection), log: log, now: time.Now}
}

type sessionDocument struct {
	ID        string    `bson:"_id"`
	Identity  string    `bson:"identity"`
	ExpiresAt time.Time `bson:"expires_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// EnsureIndexes creates the TTL index on the sessions collection.
func (s *SessionStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Identity, error) {
	var doc sessionDocument
	err := s.col.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if !doc.ExpiresAt.IsZero() && !s.now().Before(doc.ExpiresAt) {
		return nil, nil
	}

	id, ok := domain.DecodeIdentity([]byte(doc.Identity))
	if !ok {
		metrics.SessionEventsTotal.WithLabelValues("corrupt").Inc()
		s.log.Warn().Str("session_id", sessionID).Msg("corrupt session document treated as anonymous")
		return nil, nil
	}
	return &id, nil
}

// Set replaces the session document in one upsert.
func (s *SessionStore) Set(ctx context.Context, sessionID string, id domain.Identity, ttl time.Duration) error {
	raw, err := domain.EncodeIdentity(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	now := s.now().UTC()
	doc := sessionDocument{ID: sessionID, Identity: string(raw), UpdatedAt: now}
	if ttl > 0 {
		doc.ExpiresAt = now.Add(ttl)
	}

	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": sessionID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
