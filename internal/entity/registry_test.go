package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryBuildIsIdempotent(t *testing.T) {
	cache := NewRegistryCache(zap.NewNop())
	conn := &fakeQuerier{}

	first, err := cache.Get("tenant1_crm_a", conn)
	require.NoError(t, err)
	second, err := cache.Get("tenant1_crm_a", conn)
	require.NoError(t, err)

	// Reference-identical: the second call must not rebind entities or
	// re-declare relations.
	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.builds)
}

func TestDistinctTenantsGetDistinctRegistries(t *testing.T) {
	cache := NewRegistryCache(zap.NewNop())

	regA, err := cache.Get("tenantA_crm_a", &fakeQuerier{})
	require.NoError(t, err)
	regB, err := cache.Get("tenantB_crm_b", &fakeQuerier{})
	require.NoError(t, err)

	assert.NotSame(t, regA, regB)
	assert.Equal(t, 2, cache.builds)

	// Same entity name, different binding: each registry's models run
	// against their own connection.
	leadsA := mustModel(t, regA, "Lead")
	leadsB := mustModel(t, regB, "Lead")
	assert.NotSame(t, leadsA, leadsB)
}

func TestAllEntitiesBound(t *testing.T) {
	reg := buildTestRegistry(t, &fakeQuerier{})

	assert.Equal(t, len(Definitions()), reg.Len())

	for _, name := range []string{"MasterUser", "Lead", "Deal", "Organization", "ContactPerson", "Product", "Activity", "EmailMessage", "Report"} {
		m, err := reg.Model(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, m.Name())
	}
}

func TestUnknownEntity(t *testing.T) {
	reg := buildTestRegistry(t, &fakeQuerier{})

	m, err := reg.Model("Unicorn")
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestInvalidateDropsRegistry(t *testing.T) {
	cache := NewRegistryCache(zap.NewNop())
	conn := &fakeQuerier{}

	first, err := cache.Get("tenant1_crm_a", conn)
	require.NoError(t, err)

	cache.Invalidate("tenant1_crm_a")

	second, err := cache.Get("tenant1_crm_a", conn)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestDefinitionTableIsWellFormed(t *testing.T) {
	names := make(map[string]bool)
	tables := make(map[string]bool)

	for _, d := range Definitions() {
		assert.False(t, names[d.Name], "duplicate entity name %q", d.Name)
		assert.False(t, tables[d.Table], "duplicate table %q", d.Table)
		names[d.Name] = true
		tables[d.Table] = true

		assert.Equal(t, "id", d.PK, d.Name)
		assert.Contains(t, d.Columns, d.PK, d.Name)
		assert.Contains(t, d.Columns, "created_at", d.Name)
	}
}
