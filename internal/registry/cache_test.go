package registry

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCachedStore(t *testing.T, inner ClientStore) (*CachedClientStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCachedClientStore(inner, rdb, 10*time.Minute, zap.NewNop()), mr
}

func TestCachedGetByIDReadThrough(t *testing.T) {
	clientID := uuid.New()
	inner := &fakeClientStore{clients: map[uuid.UUID]*Client{
		clientID: {ID: clientID, CompanyName: "Acme", Email: "owner@acme.test", DBName: "crm_acme", DBHost: "db-acme", DBPort: 5432},
	}}
	store, _ := newCachedStore(t, inner)
	ctx := context.Background()

	first, err := store.GetByID(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.byIDs)

	// Second lookup is served from Redis.
	second, err := store.GetByID(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.byIDs)
	assert.Equal(t, first.DBHost, second.DBHost)
	assert.Equal(t, first.DBName, second.DBName)
}

func TestCachedGetByIDMissNotCached(t *testing.T) {
	inner := &fakeClientStore{clients: map[uuid.UUID]*Client{}}
	store, _ := newCachedStore(t, inner)
	ctx := context.Background()
	unknown := uuid.New()

	_, err := store.GetByID(ctx, unknown)
	assert.ErrorIs(t, err, ErrClientNotFound)

	// The miss went to the registry again — not-found is never cached,
	// so a tenant provisioned between the two calls would be seen.
	_, err = store.GetByID(ctx, unknown)
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.Equal(t, 2, inner.byIDs)
}

func TestInvalidateClient(t *testing.T) {
	clientID := uuid.New()
	inner := &fakeClientStore{clients: map[uuid.UUID]*Client{
		clientID: {ID: clientID, DBName: "crm_acme"},
	}}
	store, _ := newCachedStore(t, inner)
	ctx := context.Background()

	_, err := store.GetByID(ctx, clientID)
	require.NoError(t, err)
	require.NoError(t, store.InvalidateClient(ctx, clientID))

	_, err = store.GetByID(ctx, clientID)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.byIDs)
}

func TestGetByEmailBypassesCache(t *testing.T) {
	clientID := uuid.New()
	inner := &fakeClientStore{clients: map[uuid.UUID]*Client{
		clientID: {ID: clientID, Email: "owner@acme.test"},
	}}
	store, mr := newCachedStore(t, inner)
	ctx := context.Background()

	// Login-time lookups always hit the registry; nothing lands in
	// Redis for them.
	c, err := store.GetByEmail(ctx, "owner@acme.test")
	require.NoError(t, err)
	assert.Equal(t, clientID, c.ID)
	assert.Empty(t, mr.Keys())
}

func TestCachedGetByIDSurvivesRedisDown(t *testing.T) {
	clientID := uuid.New()
	inner := &fakeClientStore{clients: map[uuid.UUID]*Client{
		clientID: {ID: clientID, DBName: "crm_acme"},
	}}
	store, mr := newCachedStore(t, inner)
	mr.Close()

	c, err := store.GetByID(context.Background(), clientID)
	require.NoError(t, err)
	assert.Equal(t, "crm_acme", c.DBName)
}
