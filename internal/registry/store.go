package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClientStore defines lookups against the central registry.
//
// The registry's schema is fixed and known ahead of time, so it is
// queried directly — it never goes through the per-tenant model
// registry.
type ClientStore interface {
	// GetByID returns the client record for a tenant id.
	// Returns ErrClientNotFound if the registry has no such client.
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// GetByEmail is the login-time lookup. Same not-found semantics.
	GetByEmail(ctx context.Context, email string) (*Client, error)
}

const clientColumns = `id, company_name, email, password_hash,
		db_name, db_host, db_port, db_username, db_password,
		plan_id, created_at`

// PGClientStore reads the clients table over the registry pool.
type PGClientStore struct {
	pool *pgxpool.Pool
}

func NewPGClientStore(pool *pgxpool.Pool) *PGClientStore {
	return &PGClientStore{pool: pool}
}

func (s *PGClientStore) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return s.scanClient(s.pool.QueryRow(ctx, query, id))
}

func (s *PGClientStore) GetByEmail(ctx context.Context, email string) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`
	return s.scanClient(s.pool.QueryRow(ctx, query, email))
}

func (s *PGClientStore) scanClient(row pgx.Row) (*Client, error) {
	var c Client
	err := row.Scan(
		&c.ID,
		&c.CompanyName,
		&c.Email,
		&c.PasswordHash,
		&c.DBName,
		&c.DBHost,
		&c.DBPort,
		&c.DBUsername,
		&c.DBPassword,
		&c.PlanID,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan client: %w", err)
	}
	return &c, nil
}
