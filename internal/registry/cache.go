package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CachedClientStore is a read-through Redis cache in front of a
// ClientStore. Client records are read on every authenticated request
// and change only at provisioning time, so a short TTL keeps the
// registry database off the hot path without risking stale connection
// parameters for long.
//
// Only GetByID is cached: it is the per-request path. GetByEmail runs
// at login, which is rare enough to always hit the registry — and a
// login must see a fresh password hash.
type CachedClientStore struct {
	inner  ClientStore
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedClientStore(inner ClientStore, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedClientStore {
	return &CachedClientStore{
		inner:  inner,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func clientCacheKey(id uuid.UUID) string {
	return "client:" + id.String()
}

func (s *CachedClientStore) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	key := clientCacheKey(id)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var c Client
		if err := json.Unmarshal(raw, &c); err == nil {
			return &c, nil
		}
		// Corrupt entry: fall through to the registry and rewrite it.
		s.logger.Warn("discarding corrupt client cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take authentication down with it.
		s.logger.Warn("client cache read failed", zap.String("key", key), zap.Error(err))
	}

	c, err := s.inner.GetByID(ctx, id)
	if err != nil {
		// Misses and failures are never cached: a tenant provisioned a
		// moment from now must be visible on its first request.
		return nil, err
	}

	if raw, err := json.Marshal(c); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.logger.Warn("client cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return c, nil
}

func (s *CachedClientStore) GetByEmail(ctx context.Context, email string) (*Client, error) {
	return s.inner.GetByEmail(ctx, email)
}

// InvalidateClient drops a cached record, e.g. after its connection
// parameters change. The next lookup re-reads the registry.
func (s *CachedClientStore) InvalidateClient(ctx context.Context, id uuid.UUID) error {
	if err := s.rdb.Del(ctx, clientCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidate client %s: %w", id, err)
	}
	return nil
}
