package app

import (
	"context"
	"errors"
	stdhttp "net/http"

	"compliance-service/internal/config"
	apphttp "compliance-service/internal/http"
	"compliance-service/internal/infra/cache"
	"compliance-service/internal/repository/postgres"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Service owns the long-lived resources of the compliance service.
type Service struct {
	config      *config.Config
	logger      *zap.Logger
	db          *postgres.DB
	redis       *redis.Client
	memoryCache *cache.MemoryCache
	server      *apphttp.Server
	stopJanitor context.CancelFunc
}

// NewService creates and initializes a new Service instance.
// This is a convenience wrapper around InitializeService.
func NewService(ctx context.Context) (*Service, error) {
	return InitializeService(ctx)
}

func (s *Service) Config() *config.Config {
	return s.config
}

func (s *Service) Logger() *zap.Logger {
	return s.logger
}

// Start blocks serving HTTP until Shutdown.
func (s *Service) Start() error {
	s.logger.Info("starting compliance service", zap.String("addr", s.config.Server.Address()))
	if err := s.server.Start(s.config.Server.Address()); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server first, then releases the cache and database.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	if s.stopJanitor != nil {
		s.stopJanitor()
	}
	s.closeStores()
	_ = s.logger.Sync()

	return err
}

// startJanitor runs before the Service is handed out, so stopJanitor is
// never written while Start and Shutdown run on other goroutines.
func (s *Service) startJanitor() {
	if s.memoryCache == nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopJanitor = cancel
	s.memoryCache.StartJanitor(ctx, s.config.Redis.TTL)
}

func (s *Service) closeStores() {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("closing redis client", zap.Error(err))
		}
	}
	s.db.Close()
}
