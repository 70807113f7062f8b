package registry

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated means the request carried no usable credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrTokenExpired is surfaced separately so the HTTP layer can tell
	// the client to re-login instead of returning a generic 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrClientNotFound means the credential decoded fine but the
	// registry has no record for that client id — a deleted or
	// never-provisioned tenant.
	ErrClientNotFound = errors.New("client not found")
)

// Client is one row of the central registry: a tenant plus the
// connection parameters of its dedicated database.
//
// The registry is the only database this process knows about at start;
// every tenant database is reached through the parameters stored here.
// Records are written at onboarding and read on every authenticated
// request, so they are cached aggressively (see CachedClientStore).
type Client struct {
	ID          uuid.UUID `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       string    `json:"email"`

	// PasswordHash is the bcrypt hash checked at login. It travels
	// through the Redis cache (internal infrastructure) but must never
	// reach an API response.
	PasswordHash string `json:"password_hash"`

	DBName     string `json:"db_name"`
	DBHost     string `json:"db_host"`
	DBPort     int    `json:"db_port"`
	DBUsername string `json:"db_username"`
	DBPassword string `json:"db_password"`

	PlanID    uuid.NullUUID `json:"plan_id"`
	CreatedAt time.Time     `json:"created_at"`
}
