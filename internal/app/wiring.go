package app

import (
	"context"
	"fmt"

	"compliance-service/internal/auth"
	"compliance-service/internal/config"
	apphttp "compliance-service/internal/http"
	"compliance-service/internal/identity"
	"compliance-service/internal/infra/cache"
	"compliance-service/internal/repository/postgres"
	"compliance-service/internal/rbac/presets"
	"compliance-service/pkg/logger"
	"compliance-service/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const serviceName = "compliance-service"

// InitializeService wires up all dependencies and returns a configured Service.
// Resources opened before a failing step are released before returning.
func InitializeService(ctx context.Context) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established", zap.String("host", cfg.Database.Host))

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	svc := &Service{
		config: cfg,
		logger: log,
		db:     db,
	}

	roleCache, redisClient, err := newRoleCache(cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	svc.redis = redisClient
	if mem, ok := roleCache.(*cache.MemoryCache); ok {
		svc.memoryCache = mem
	}

	checker := presets.Checker()
	assignments := postgres.NewAssignmentRepository(db, checker, presets.RoleSuperAdmin)
	resolver := identity.NewResolver(assignments, roleCache, log)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiry)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.New(registry)
	if err != nil {
		svc.closeStores()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	svc.server = apphttp.NewServer(&apphttp.ServerDependencies{
		Config:         cfg,
		Logger:         log,
		Checker:        checker,
		Assignments:    assignments,
		Invalidator:    resolver,
		Metrics:        collector,
		Gatherer:       registry,
		Health:         db,
		AuthMiddleware: auth.NewMiddleware(jwtService, resolver, log),
		RBACMiddleware: auth.NewRBACMiddleware(checker, log).WithRecorder(collector),
	})

	// Last, so no failed step above has a janitor to stop.
	svc.startJanitor()

	return svc, nil
}

// newRoleCache picks Redis when an address is configured and the
// in-process cache otherwise.
func newRoleCache(cfg *config.Config, log *zap.Logger) (cache.RoleCache, *redis.Client, error) {
	if cfg.Redis.Addr == "" {
		log.Info("using in-process role cache", zap.Duration("ttl", cfg.Redis.TTL))
		return cache.NewMemoryCache(cfg.Redis.TTL), nil, nil
	}

	client, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("using redis role cache", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Redis.TTL))

	return cache.NewRedisCache(client, cfg.Redis.TTL), client, nil
}
