// Package entity holds the per-tenant model registry: a closed,
// enumerated set of CRM entity definitions that get bound to one
// tenant database connection and wired with their relations exactly
// once per connection.
package entity

import "errors"

// ErrUnknownEntity means a handler asked the registry for a model name
// outside the enumerated set. That is a programming error, not user
// input: it maps to a 500 and gets logged loudly.
var ErrUnknownEntity = errors.New("unknown entity")

// Definition describes one entity ahead of any connection: its table,
// its columns, its primary key. Definitions are static data — the full
// set lives in entities.go and is processed in a loop at registry
// build time.
type Definition struct {
	Name    string
	Table   string
	PK      string
	Columns []string
}

// RelationKind distinguishes the three supported relation shapes.
type RelationKind int

const (
	// HasMany: the source owns many target rows; the foreign key lives
	// on the target table.
	HasMany RelationKind = iota

	// HasOne: like HasMany with at most one target row.
	HasOne

	// BelongsTo: the source carries the foreign key pointing at one
	// target row.
	BelongsTo
)

func (k RelationKind) String() string {
	switch k {
	case HasMany:
		return "hasMany"
	case HasOne:
		return "hasOne"
	case BelongsTo:
		return "belongsTo"
	default:
		return "unknown"
	}
}

// ReferentialAction is what happens to dependents when the parent side
// of a relation is deleted or its key updated.
type ReferentialAction int

const (
	NoAction ReferentialAction = iota
	Cascade
	SetNull
	Restrict
)

// Relation is one declared link between two entities in the same
// registry.
//
// ForeignKey is always the column on the child side (the target table
// for HasMany/HasOne, the source table for BelongsTo). SourceKey is
// the column on the parent side it references; empty means the
// parent's primary key.
type Relation struct {
	Kind       RelationKind
	Name       string
	Target     string
	ForeignKey string
	SourceKey  string
	OnDelete   ReferentialAction
	OnUpdate   ReferentialAction
}
