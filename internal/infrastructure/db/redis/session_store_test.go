package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmsystem/console-api/internal/api/metrics"
	"github.com/crmsystem/console-api/internal/core/domain"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionStore_SetGetOverwriteClear(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewSessionStore(client, zerolog.Nop())
	ctx := context.Background()

	amy := domain.Identity{Username: "amy", Role: domain.RoleAnalyst}
	require.NoError(t, store.Set(ctx, "s1", amy, time.Hour))
	assert.True(t, mr.Exists("crm:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("crm:session:s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, amy, *got)

	ann := domain.Identity{Username: "ann", Role: domain.RoleAdmin}
	require.NoError(t, store.Set(ctx, "s1", ann, time.Hour))
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, ann, *got)

	require.NoError(t, store.Clear(ctx, "s1"))
	require.NoError(t, store.Clear(ctx, "s1"), "clearing twice is fine")
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_Expiry(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewSessionStore(client, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "s1", domain.Identity{Username: "amy", Role: domain.RoleAnalyst}, time.Minute))
	mr.FastForward(time.Minute)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_CorruptValueIsAbsent(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewSessionStore(client, zerolog.Nop())
	require.NoError(t, mr.Set("crm:session:bad", "{not json"))
	require.NoError(t, mr.Set("crm:session:norole", `{"username":"amy","role":"INTERN"}`))

	corrupt := metrics.SessionEventsTotal.WithLabelValues("corrupt")
	before := testutil.ToFloat64(corrupt)

	for _, sid := range []string{"bad", "norole"} {
		got, err := store.Get(context.Background(), sid)
		assert.NoError(t, err, sid)
		assert.Nil(t, got, sid)
	}
	assert.Equal(t, before+2, testutil.ToFloat64(corrupt))
}

func TestSessionStore_BackendDown(t *testing.T) {
	mr, client := newMiniredis(t)
	store := NewSessionStore(client, zerolog.Nop())
	mr.Close()

	_, err := store.Get(context.Background(), "s1")
	assert.Error(t, err)
}
