package tenantdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConnectionFailed means a tenant database could not be reached or
// rejected its credentials. It is fatal for the current request and is
// never retried here; retry policy belongs to the caller. Failed
// attempts leave no cache entry behind.
var ErrConnectionFailed = errors.New("tenant database connection failed")

// Querier is the query surface handlers and entity models run on.
// *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Conn is a live, authenticated handle to one tenant's database.
type Conn interface {
	Querier

	// Begin opens a transaction. Multi-statement writes such as
	// cascade deletes run inside one so a mid-sequence failure leaves
	// no partial state.
	Begin(ctx context.Context) (pgx.Tx, error)

	// Ping is the liveness probe the cache runs before reusing a
	// handle.
	Ping(ctx context.Context) error

	Close()
}

// ConnParams are the connection parameters a client record supplies.
// Nothing in here is ever hard-coded: every field comes from the
// central registry at runtime.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

func (p ConnParams) validate() error {
	if p.Host == "" || p.Port == 0 || p.User == "" || p.Database == "" {
		return fmt.Errorf("incomplete connection parameters for database %q on %q", p.Database, p.Host)
	}
	return nil
}

// DialFunc establishes a new authenticated connection. The context
// carries the connect timeout; implementations must honor it.
type DialFunc func(ctx context.Context, params ConnParams) (Conn, error)

// Key is the cache key for one tenant database. Both the connection
// cache and the model registry cache use this same composite key, so a
// registry is never shared between tenants even when they live on the
// same database host.
func Key(clientID uuid.UUID, dbName string) string {
	return clientID.String() + "_" + dbName
}
