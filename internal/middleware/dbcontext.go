package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/auth"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/entity"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/registry"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/tenantdb"
)

// Context keys for the per-request tenant context. String constants so
// a typo in a handler fails visibly instead of silently returning nil.
const (
	ContextKeyConn   = "tenant_conn"
	ContextKeyModels = "tenant_models"
	ContextKeyClaims = "caller_claims"
)

// TenantResolver turns an Authorization header into a client record
// plus caller identity.
type TenantResolver interface {
	Resolve(ctx context.Context, authorizationHeader string) (*registry.Client, *auth.Claims, error)
}

// ConnProvider is the connection pool cache surface the binder needs.
type ConnProvider interface {
	Get(ctx context.Context, client *registry.Client) (tenantdb.Conn, error)
}

// ModelProvider is the model registry cache surface the binder needs.
type ModelProvider interface {
	Get(key string, conn tenantdb.Querier) (*entity.Registry, error)
}

// DBContext is the per-request setup step: resolve the tenant from the
// credential, get-or-create its database connection, get-or-create its
// model registry, and attach all three to the request context.
//
// It is all-or-nothing. Any failure aborts the request with a typed
// JSON error before the handler runs; a handler never observes a
// context with a nil connection or registry. On resolver failure
// neither cache has been touched.
func DBContext(resolver TenantResolver, conns ConnProvider, models ModelProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		client, claims, err := resolver.Resolve(ctx, c.GetHeader("Authorization"))
		if err != nil {
			abortWithError(c, logger, err)
			return
		}

		conn, err := conns.Get(ctx, client)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}

		reg, err := models.Get(tenantdb.Key(client.ID, client.DBName), conn)
		if err != nil {
			abortWithError(c, logger, err)
			return
		}

		c.Set(ContextKeyConn, conn)
		c.Set(ContextKeyModels, reg)
		c.Set(ContextKeyClaims, claims)

		c.Next()
	}
}

func abortWithError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, registry.ErrTokenExpired):
		status = http.StatusUnauthorized
		message = "Token expired"
	case errors.Is(err, registry.ErrUnauthenticated):
		status = http.StatusUnauthorized
		message = "Authentication failed"
	case errors.Is(err, registry.ErrClientNotFound):
		status = http.StatusUnauthorized
		message = "Client not found"
	case errors.Is(err, tenantdb.ErrConnectionFailed):
		status = http.StatusServiceUnavailable
		message = "Cannot reach tenant database"
		logger.Error("tenant database unavailable", zap.Error(err))
	default:
		logger.Error("request context binding failed", zap.Error(err))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// GetConn returns the tenant connection bound to this request, nil if
// the binder did not run.
func GetConn(c *gin.Context) tenantdb.Conn {
	val, exists := c.Get(ContextKeyConn)
	if !exists {
		return nil
	}
	conn, ok := val.(tenantdb.Conn)
	if !ok {
		return nil
	}
	return conn
}

// GetModels returns the tenant's model registry, nil if the binder did
// not run.
func GetModels(c *gin.Context) *entity.Registry {
	val, exists := c.Get(ContextKeyModels)
	if !exists {
		return nil
	}
	reg, ok := val.(*entity.Registry)
	if !ok {
		return nil
	}
	return reg
}

// GetClaims returns the decoded caller identity, nil if the binder did
// not run.
func GetClaims(c *gin.Context) *auth.Claims {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
