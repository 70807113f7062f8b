package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relationOf(t *testing.T, reg *Registry, entity, name string) Relation {
	t.Helper()
	rel, ok := mustModel(t, reg, entity).Relation(name)
	require.True(t, ok, "%s has no relation %q", entity, name)
	return rel
}

func TestOwnershipChainWiring(t *testing.T) {
	reg := buildTestRegistry(t, &fakeQuerier{})

	// A tenant user owns many organizations.
	owns := relationOf(t, reg, "MasterUser", "Organizations")
	assert.Equal(t, HasMany, owns.Kind)
	assert.Equal(t, "Organization", owns.Target)
	assert.Equal(t, "owner_id", owns.ForeignKey)
	assert.Equal(t, SetNull, owns.OnDelete)

	// An organization has many contact persons.
	contacts := relationOf(t, reg, "Organization", "ContactPersons")
	assert.Equal(t, HasMany, contacts.Kind)
	assert.Equal(t, "ContactPerson", contacts.Target)
	assert.Equal(t, "organization_id", contacts.ForeignKey)

	// A contact person optionally belongs to one organization.
	back := relationOf(t, reg, "ContactPerson", "Organization")
	assert.Equal(t, BelongsTo, back.Kind)
	assert.Equal(t, "organization_id", back.ForeignKey)
}

func TestCascadeFlags(t *testing.T) {
	reg := buildTestRegistry(t, &fakeQuerier{})

	tests := []struct {
		entity   string
		relation string
		onDelete ReferentialAction
	}{
		{"Lead", "Notes", Cascade},
		{"Deal", "Products", Cascade},
		{"Pipeline", "Stages", Cascade},
		{"Role", "Permissions", Cascade},
		{"EmailAccount", "Messages", Cascade},
		{"MasterUser", "Leads", SetNull},
		{"ProductCategory", "Products", SetNull},
		{"Folder", "Documents", SetNull},
	}
	for _, tt := range tests {
		rel := relationOf(t, reg, tt.entity, tt.relation)
		assert.Equal(t, tt.onDelete, rel.OnDelete, "%s.%s", tt.entity, tt.relation)
	}
}

func TestHasOneActivitySubtypes(t *testing.T) {
	reg := buildTestRegistry(t, &fakeQuerier{})

	for _, name := range []string{"Task", "Call", "Meeting"} {
		rel := relationOf(t, reg, "Activity", name)
		assert.Equal(t, HasOne, rel.Kind, name)
		assert.Equal(t, "activity_id", rel.ForeignKey, name)
		assert.Equal(t, Cascade, rel.OnDelete, name)
	}
}

func TestEveryForeignKeyIsARealColumn(t *testing.T) {
	reg := buildTestRegistry(t, &fakeQuerier{})

	// wireAssociations validates this at build time; walking the wired
	// result keeps the check honest if validation ever regresses.
	for _, d := range Definitions() {
		m := mustModel(t, reg, d.Name)
		for _, rel := range m.Relations() {
			target := mustModel(t, reg, rel.Target)
			fkOwner := target
			if rel.Kind == BelongsTo {
				fkOwner = m
			}
			assert.Contains(t, fkOwner.Columns(), rel.ForeignKey,
				"%s.%s foreign key %q missing on %s", d.Name, rel.Name, rel.ForeignKey, fkOwner.Name())
		}
	}
}

func TestWiringRejectsBadDeclarations(t *testing.T) {
	fresh := func() map[string]*Model {
		models := make(map[string]*Model)
		for _, d := range Definitions() {
			models[d.Name] = newModel(d, &fakeQuerier{})
		}
		return models
	}

	t.Run("unknown target", func(t *testing.T) {
		w := &wiring{models: fresh()}
		w.hasMany("Lead", "Ghosts", "Ghost", "lead_id", Cascade)
		assert.ErrorContains(t, w.err, `unknown entity "Ghost"`)
	})

	t.Run("foreign key not a column", func(t *testing.T) {
		w := &wiring{models: fresh()}
		w.hasMany("Lead", "Notes", "LeadNote", "nonexistent_id", Cascade)
		assert.ErrorContains(t, w.err, `no column "nonexistent_id"`)
	})

	t.Run("duplicate declaration", func(t *testing.T) {
		w := &wiring{models: fresh()}
		w.hasMany("Lead", "Notes", "LeadNote", "lead_id", Cascade)
		w.hasMany("Lead", "Notes", "LeadNote", "lead_id", Cascade)
		assert.ErrorContains(t, w.err, "declared twice")
	})
}
