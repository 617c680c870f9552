package http

import (
	"context"
	stdhttp "net/http"

	"compliance-service/internal/auth"
	"compliance-service/internal/config"
	"compliance-service/internal/http/handler"
	"compliance-service/internal/http/middleware"
	"compliance-service/internal/rbac"
	"compliance-service/internal/rbac/presets"
	"compliance-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	jsonKeyStatus     = "status"
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	requestBodyLimit  = "1M"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type ServerDependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Checker        *rbac.Checker
	Assignments    handler.AssignmentStore
	Invalidator    handler.RoleInvalidator
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Health         Pinger
	AuthMiddleware *auth.Middleware
	RBACMiddleware *auth.RBACMiddleware
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))

	// Unauthenticated routes are limited per IP; the API group is limited
	// per user once RequireJWT has identified the caller.
	ipRateLimiter := middleware.NewRateLimiter(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.Burst)
	userRateLimiter := middleware.NewRateLimiter(deps.Config.RateLimit.RequestsPerSecond, deps.Config.RateLimit.Burst)

	// Role mutations get a tighter per-user budget.
	strictRateLimiter := middleware.NewStrictRateLimiter()

	catalogHandler := handler.NewCatalogHandler(deps.Checker)
	meHandler := handler.NewMeHandler(deps.Checker)
	assignmentHandler := handler.NewAssignmentHandler(deps.Checker, deps.Assignments, deps.Invalidator, deps.Logger)

	e.GET("/health", healthCheck(deps.Health, deps.Logger), ipRateLimiter.Middleware())
	if deps.Gatherer != nil {
		// Scraped from inside the cluster, so it sits outside the JWT group.
		e.GET("/metrics", metrics.PrometheusHandler(deps.Gatherer), ipRateLimiter.Middleware())
	}

	api := e.Group("/api/v1")
	api.Use(deps.AuthMiddleware.RequireJWT())
	api.Use(userRateLimiter.Middleware())

	rbacMW := deps.RBACMiddleware

	api.GET("/catalog/permissions", catalogHandler.ListPermissions)
	api.GET("/catalog/roles", catalogHandler.ListRoles)
	api.GET("/catalog/roles/:role", catalogHandler.GetRole)

	api.GET("/me/permissions", meHandler.GetPermissions)
	api.POST("/me/check", meHandler.Check)

	api.GET("/role-assignments", assignmentHandler.List, rbacMW.RequirePermission(presets.PermTeamView))
	api.GET("/users/:user_id/role", assignmentHandler.Get, rbacMW.RequirePermission(presets.PermTeamView))
	api.PUT("/users/:user_id/role", assignmentHandler.Assign, rbacMW.RequirePermission(presets.PermTeamEdit), strictRateLimiter.Middleware())
	api.DELETE("/users/:user_id/role", assignmentHandler.Revoke, rbacMW.RequirePermission(presets.PermTeamDelete), strictRateLimiter.Middleware())

	if deps.Metrics != nil {
		api.GET("/metrics", deps.Metrics.Handler, rbacMW.RequirePermission(presets.PermSettingsView))
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

// healthCheck reports readiness: a failed ping takes the pod
// out of rotation without restarting it.
func healthCheck(db Pinger, logger *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			if err := db.Ping(c.Request().Context()); err != nil {
				if logger != nil {
					logger.Warn("health check failed", zap.Error(err))
				}
				return c.JSON(stdhttp.StatusServiceUnavailable, map[string]string{
					jsonKeyStatus: statusUnavailable,
				})
			}
		}
		return c.JSON(stdhttp.StatusOK, map[string]string{
			jsonKeyStatus: statusOK,
		})
	}
}
