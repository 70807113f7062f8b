package entity

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/tenantdb"
)

// Model is one entity bound to one tenant connection: the schema
// accessor handlers use for data access. It is built once per
// (tenant, database) by the registry cache and shared by every request
// for that tenant, so it holds no per-request state.
type Model struct {
	def       Definition
	conn      tenantdb.Querier
	reg       *Registry
	relations []Relation
	byName    map[string]Relation
}

func newModel(def Definition, conn tenantdb.Querier) *Model {
	return &Model{
		def:    def,
		conn:   conn,
		byName: make(map[string]Relation),
	}
}

func (m *Model) Name() string  { return m.def.Name }
func (m *Model) Table() string { return m.def.Table }
func (m *Model) PK() string    { return m.def.PK }

// Columns returns a copy; the definition table is shared across all
// registries and must stay immutable.
func (m *Model) Columns() []string {
	cols := make([]string, len(m.def.Columns))
	copy(cols, m.def.Columns)
	return cols
}

// Relations returns the declared relations in declaration order.
func (m *Model) Relations() []Relation {
	rels := make([]Relation, len(m.relations))
	copy(rels, m.relations)
	return rels
}

// Relation looks up a declared relation by its accessor name.
func (m *Model) Relation(name string) (Relation, bool) {
	rel, ok := m.byName[name]
	return rel, ok
}

func (m *Model) hasColumn(name string) bool {
	for _, c := range m.def.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (m *Model) columnList() string {
	return strings.Join(m.def.Columns, ", ")
}

// Select runs a read with an optional WHERE clause (without the
// keyword) and positional arguments.
func (m *Model) Select(ctx context.Context, where string, args ...any) (pgx.Rows, error) {
	query := "SELECT " + m.columnList() + " FROM " + m.def.Table
	if where != "" {
		query += " WHERE " + where
	}
	rows, err := m.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", m.def.Name, err)
	}
	return rows, nil
}

// GetByID returns one row as a column→value map, or pgx.ErrNoRows.
func (m *Model) GetByID(ctx context.Context, id any) (map[string]any, error) {
	rows, err := m.Select(ctx, m.def.PK+" = $1", id)
	if err != nil {
		return nil, err
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Insert writes one row from a column→value map and returns the
// stored row (defaults and generated ids included). Column order is
// sorted so the generated SQL is deterministic.
func (m *Model) Insert(ctx context.Context, values map[string]any) (map[string]any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("insert %s: no values", m.def.Name)
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		if !m.hasColumn(col) {
			return nil, fmt.Errorf("insert %s: no such column %q", m.def.Name, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = values[col]
	}

	query := "INSERT INTO " + m.def.Table +
		" (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")" +
		" RETURNING " + m.columnList()

	rows, err := m.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", m.def.Name, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", m.def.Name, err)
	}
	return row, nil
}

// Update patches one row by primary key.
func (m *Model) Update(ctx context.Context, id any, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	cols := make([]string, 0, len(values))
	for col := range values {
		if !m.hasColumn(col) {
			return fmt.Errorf("update %s: no such column %q", m.def.Name, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	assignments := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		assignments[i] = col + " = $" + strconv.Itoa(i+1)
		args = append(args, values[col])
	}
	args = append(args, id)

	query := "UPDATE " + m.def.Table +
		" SET " + strings.Join(assignments, ", ") +
		" WHERE " + m.def.PK + " = $" + strconv.Itoa(len(cols)+1)

	if _, err := m.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", m.def.Name, err)
	}
	return nil
}

// txBeginner is the transaction seam Delete needs. The production
// connection (a pgx pool) provides it; the registry's binding seam
// stays a plain Querier for everything else.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Delete removes one row by primary key, honoring the declared
// referential actions first: Cascade relations delete their dependents
// (recursively, so a cascading child's own cascades run too), SetNull
// relations orphan them.
//
// The whole sequence runs inside one transaction: a failure partway
// must not leave some dependents deleted while the parent and the rest
// survive. Dependents are handled before the parent row so a
// database-level FK constraint, if present, never fires mid-delete.
func (m *Model) Delete(ctx context.Context, id any) error {
	b, ok := m.conn.(txBeginner)
	if !ok {
		return fmt.Errorf("delete %s: connection does not support transactions", m.def.Name)
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: begin: %w", m.def.Name, err)
	}

	if err := m.deleteOn(ctx, tx, id); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("delete %s: commit: %w", m.def.Name, err)
	}
	return nil
}

// deleteOn runs the cascade and the final delete on one querier — the
// open transaction, shared by every nested cascade level.
func (m *Model) deleteOn(ctx context.Context, q tenantdb.Querier, id any) error {
	for _, rel := range m.relations {
		if rel.Kind == BelongsTo {
			continue
		}
		target, err := m.reg.Model(rel.Target)
		if err != nil {
			return err
		}
		switch rel.OnDelete {
		case Cascade:
			if err := target.deleteWhere(ctx, q, rel.ForeignKey, id); err != nil {
				return fmt.Errorf("cascade %s.%s: %w", m.def.Name, rel.Name, err)
			}
		case SetNull:
			query := "UPDATE " + target.def.Table + " SET " + rel.ForeignKey + " = NULL WHERE " + rel.ForeignKey + " = $1"
			if _, err := q.Exec(ctx, query, id); err != nil {
				return fmt.Errorf("orphan %s.%s: %w", m.def.Name, rel.Name, err)
			}
		}
	}

	query := "DELETE FROM " + m.def.Table + " WHERE " + m.def.PK + " = $1"
	if _, err := q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s: %w", m.def.Name, err)
	}
	return nil
}

// deleteWhere deletes every row matching column = value through
// deleteOn, so nested cascades apply within the same transaction.
func (m *Model) deleteWhere(ctx context.Context, q tenantdb.Querier, column string, value any) error {
	rows, err := q.Query(ctx, "SELECT "+m.def.PK+" FROM "+m.def.Table+" WHERE "+column+" = $1", value)
	if err != nil {
		return err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[any])
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := m.deleteOn(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}

// Related traverses a declared relation.
//
// For HasMany/HasOne, value is the parent's source-key value and the
// result is the dependent rows. For BelongsTo, value is the source
// row's foreign-key value and the result is the (single) parent row.
func (m *Model) Related(ctx context.Context, relationName string, value any) (pgx.Rows, error) {
	rel, ok := m.byName[relationName]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no relation %q", ErrUnknownEntity, m.def.Name, relationName)
	}

	target, err := m.reg.Model(rel.Target)
	if err != nil {
		return nil, err
	}

	var column string
	switch rel.Kind {
	case HasMany, HasOne:
		column = rel.ForeignKey
	case BelongsTo:
		column = rel.SourceKey
		if column == "" {
			column = target.def.PK
		}
	}

	return target.Select(ctx, column+" = $1", value)
}
