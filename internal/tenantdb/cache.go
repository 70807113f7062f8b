package tenantdb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/registry"
	"go.uber.org/zap"
)

// Cache maps tenants to live database handles. Handles are created
// lazily on a tenant's first request, liveness-checked on reuse, and
// replaced when dead. There is no idle eviction: a handle lives as
// long as the process. With one pool per tenant this grows unbounded
// in the number of active tenants — an accepted trade-off, since each
// handle is itself a pool that shrinks when idle.
type Cache struct {
	mu    sync.RWMutex
	conns map[string]Conn

	locks       *keyedMutex
	dial        DialFunc
	timeout     time.Duration
	defaultPort int
	logger      *zap.Logger
}

// NewCache builds a cache dialing through dial. Client records that
// carry no port dial defaultPort instead.
func NewCache(dial DialFunc, timeout time.Duration, defaultPort int, logger *zap.Logger) *Cache {
	return &Cache{
		conns:       make(map[string]Conn),
		locks:       newKeyedMutex(),
		dial:        dial,
		timeout:     timeout,
		defaultPort: defaultPort,
		logger:      logger,
	}
}

// Get returns a live handle for the client's database, reusing the
// cached one when it still answers a ping.
//
// The whole probe-then-dial sequence holds a per-key lock, so two
// concurrent first requests for the same tenant share one dial instead
// of racing; requests for different tenants never contend.
func (c *Cache) Get(ctx context.Context, client *registry.Client) (Conn, error) {
	params := ConnParams{
		Host:     client.DBHost,
		Port:     client.DBPort,
		User:     client.DBUsername,
		Password: client.DBPassword,
		Database: client.DBName,
	}
	if params.Port == 0 {
		params.Port = c.defaultPort
	}
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	key := Key(client.ID, client.DBName)

	unlock := c.locks.lock(key)
	defer unlock()

	if conn, ok := c.lookup(key); ok {
		probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := conn.Ping(probeCtx)
		cancel()
		if err == nil {
			return conn, nil
		}
		// Dead handle: drop it and fall through to a fresh dial.
		c.logger.Warn("cached tenant connection failed liveness probe",
			zap.String("key", key),
			zap.Error(err),
		)
		conn.Close()
		c.remove(key)
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dial(dialCtx, params)
	if err != nil {
		// Not cached: the next request gets a clean attempt.
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	c.store(key, conn)
	c.logger.Info("tenant connection established",
		zap.String("client_id", client.ID.String()),
		zap.String("database", client.DBName),
		zap.String("host", client.DBHost),
	)
	return conn, nil
}

// Invalidate closes and drops the handle for one tenant database, if
// present. Normal operation never calls this; it exists for tests and
// for provisioning flows that change a tenant's connection parameters.
func (c *Cache) Invalidate(clientID uuid.UUID, dbName string) {
	key := Key(clientID, dbName)

	unlock := c.locks.lock(key)
	defer unlock()

	if conn, ok := c.lookup(key); ok {
		conn.Close()
		c.remove(key)
	}
}

// Len reports how many tenant databases currently hold a handle.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.conns)
}

// Close drops every handle. Shutdown only.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, conn := range c.conns {
		conn.Close()
		delete(c.conns, key)
	}
}

func (c *Cache) lookup(key string) (Conn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	conn, ok := c.conns[key]
	return conn, ok
}

func (c *Cache) store(key string, conn Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[key] = conn
}

func (c *Cache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, key)
}

// keyedMutex hands out one mutex per cache key. Unlike a result-
// deduplicating primitive, the lock is held across the full
// probe-then-redial sequence, which is what actually needs to be
// serialized per tenant.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()

		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
