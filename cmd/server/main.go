package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/api"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/config"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/entity"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/middleware"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/observ"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/registry"
	"github.com/intileotechnologiesllp/CRM-Intileo-BE-sub001/internal/tenantdb"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// 3. Connect to the central registry
	//
	// This is the only database whose location is configured. Every
	// tenant database is discovered through it at request time.
	// ---------------------------------------------------------------
	registryPool, err := registry.NewPool(context.Background(), cfg.RegistryDatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to registry: %w", err)
	}
	defer registryPool.Close()

	// ---------------------------------------------------------------
	// 4. Redis-backed client record cache
	//
	// Redis being down degrades to registry reads, so a failed ping
	// here logs a warning rather than refusing to start.
	// ---------------------------------------------------------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("redis unreachable, client lookups will hit the registry", zap.Error(err))
	}

	clients := registry.NewCachedClientStore(
		registry.NewPGClientStore(registryPool),
		rdb,
		cfg.ClientCacheTTL,
		logger,
	)

	// ---------------------------------------------------------------
	// 5. Tenant resolver + the two process-wide caches
	// ---------------------------------------------------------------
	resolver := registry.NewResolver(cfg.JWTSecret, clients)

	connCache := tenantdb.NewCache(tenantdb.PgxDialer(logger), cfg.TenantConnectTimeout, cfg.TenantDBDefaultPort, logger)
	defer connCache.Close()

	modelCache := entity.NewRegistryCache(logger)

	// ---------------------------------------------------------------
	// 6. HTTP server
	// ---------------------------------------------------------------
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Health check is public; load balancers hit it unauthenticated.
	srv.GET("/health", func(c *gin.Context) {
		if err := registryPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessionHandler := api.NewSessionHandler(clients, cfg, logger)
	leadHandler := api.NewLeadHandler(logger)
	orgHandler := api.NewOrganizationHandler(logger)
	contactHandler := api.NewContactPersonHandler(logger)

	v1 := srv.Group("/api/v1")

	// Login is public — it's the endpoint that produces tokens.
	v1.POST("/session", sessionHandler.Login)

	// Everything else runs behind the db-context binder: resolve the
	// tenant, bind its connection and models, then hand over to the
	// handler.
	protected := v1.Group("")
	protected.Use(middleware.DBContext(resolver, connCache, modelCache, logger))

	protected.GET("/leads", leadHandler.List)
	protected.POST("/leads", leadHandler.Create)
	protected.GET("/leads/:id", leadHandler.Get)
	protected.DELETE("/leads/:id", leadHandler.Delete)

	protected.GET("/organizations", orgHandler.List)
	protected.POST("/organizations", orgHandler.Create)
	protected.GET("/organizations/:id/contact-persons", orgHandler.ContactPersons)

	protected.GET("/contact-persons", contactHandler.List)
	protected.POST("/contact-persons", contactHandler.Create)

	logger.Info("starting CRM backend",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
