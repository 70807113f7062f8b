package entity

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/tenantdb"
)

// Registry is the complete set of bound, relation-wired models for one
// tenant database. Handlers reach entities through Model(name); raw
// SQL goes through the connection handle directly.
type Registry struct {
	key    string
	conn   tenantdb.Querier
	models map[string]*Model
}

// Key returns the composite cache key this registry was built under
// (same key as the connection cache entry it is bound to).
func (r *Registry) Key() string { return r.key }

// Conn returns the connection the models are bound to.
func (r *Registry) Conn() tenantdb.Querier { return r.conn }

// Len reports how many entities are bound.
func (r *Registry) Len() int { return len(r.models) }

// Model returns the bound accessor for an entity name, or
// ErrUnknownEntity for a name outside the enumerated set.
func (r *Registry) Model(name string) (*Model, error) {
	m, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return m, nil
}

// RegistryCache memoizes one Registry per tenant database. Binding 80+
// entities and declaring their relations is pure setup work that must
// run exactly once per connection: repeating it would waste every
// request and, unguarded, would declare duplicate relations.
type RegistryCache struct {
	mu         sync.Mutex
	registries map[string]*Registry
	logger     *zap.Logger

	// builds counts cold builds; read by tests to prove cache hits do
	// no rebinding.
	builds int
}

func NewRegistryCache(logger *zap.Logger) *RegistryCache {
	return &RegistryCache{
		registries: make(map[string]*Registry),
		logger:     logger,
	}
}

// Get returns the registry for a tenant database, building it on first
// use. The key is the same composite key the connection cache uses
// (tenantdb.Key), so registries are never shared across tenants even
// on a shared host. Repeated calls with the same key return the
// reference-identical registry.
func (c *RegistryCache) Get(key string, conn tenantdb.Querier) (*Registry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if reg, ok := c.registries[key]; ok {
		return reg, nil
	}

	reg, err := build(key, conn)
	if err != nil {
		return nil, err
	}
	c.registries[key] = reg
	c.builds++

	c.logger.Info("model registry built",
		zap.String("key", key),
		zap.Int("entities", reg.Len()),
	)
	return reg, nil
}

// Invalidate drops the registry for one tenant database. It pairs with
// connection invalidation: a registry must not outlive the connection
// its models are bound to.
func (c *RegistryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registries, key)
}

// build binds every entity definition to the connection and wires the
// associations — once, on the assembled mapping.
func build(key string, conn tenantdb.Querier) (*Registry, error) {
	reg := &Registry{
		key:    key,
		conn:   conn,
		models: make(map[string]*Model, len(definitions)),
	}

	for _, d := range definitions {
		m := newModel(d, conn)
		m.reg = reg
		reg.models[d.Name] = m
	}

	if err := wireAssociations(reg.models); err != nil {
		return nil, err
	}
	return reg, nil
}
