package tenantdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PgxDialer returns the production DialFunc: each tenant gets its own
// pgx pool sized smaller than a dedicated service would use, because
// one process holds a pool per active tenant.
func PgxDialer(logger *zap.Logger) DialFunc {
	return func(ctx context.Context, params ConnParams) (Conn, error) {
		dsn := &url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(params.User, params.Password),
			Host:     params.Host + ":" + strconv.Itoa(params.Port),
			Path:     "/" + params.Database,
			RawQuery: "sslmode=disable",
		}

		poolConfig, err := pgxpool.ParseConfig(dsn.String())
		if err != nil {
			return nil, fmt.Errorf("parse tenant pool config: %w", err)
		}

		poolConfig.MaxConns = 5
		poolConfig.MinConns = 0
		poolConfig.MaxConnLifetime = 1 * time.Hour
		poolConfig.MaxConnIdleTime = 10 * time.Minute
		poolConfig.HealthCheckPeriod = 1 * time.Minute

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return nil, fmt.Errorf("create tenant pool: %w", err)
		}

		// Authenticate now, inside the dial timeout, so a wrong
		// password fails this request instead of the first query.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping tenant database: %w", err)
		}

		logger.Debug("dialed tenant database",
			zap.String("host", params.Host),
			zap.String("database", params.Database),
		)
		return pool, nil
	}
}
