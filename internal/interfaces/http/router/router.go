package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/facturio/backend/internal/infrastructure/auth"
	"github.com/facturio/backend/internal/infrastructure/cache"
	"github.com/facturio/backend/internal/infrastructure/config"
	"github.com/facturio/backend/internal/infrastructure/logger"
	"github.com/facturio/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Dependencies holds everything the router needs to assemble the engine.
// System registrars mount outside the authenticated API group.
type Dependencies struct {
	Config           *config.Config
	Logger           *zap.Logger
	JWTService       *auth.JWTService
	TokenBlacklist   auth.TokenBlacklist
	IdempotencyStore cache.IdempotencyStore
	System           []RouteRegistrar
	API              []RouteRegistrar
}

// New builds the gin engine with the full middleware chain and all routes
// mounted under /api/v1.
func New(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(deps.Config)))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: deps.Config.App.Name,
		Enabled:     deps.Config.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	// health and readiness stay outside authentication
	system := engine.Group("")
	for _, registrar := range deps.System {
		registrar.RegisterRoutes(system)
	}

	api := engine.Group("/api/v1")
	if deps.JWTService != nil {
		jwtCfg := middleware.DefaultJWTConfig(deps.JWTService)
		jwtCfg.TokenBlacklist = deps.TokenBlacklist
		jwtCfg.Logger = deps.Logger
		api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
		api.Use(middleware.TracingAttributeInjector())
	}
	if deps.IdempotencyStore != nil {
		api.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  deps.IdempotencyStore,
			Logger: deps.Logger,
		}))
	}
	for _, registrar := range deps.API {
		registrar.RegisterRoutes(api)
	}

	return engine
}

// corsConfig merges the configured CORS settings into the defaults. Origins
// must be configured explicitly; methods and headers fall back to sane values.
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return cors
}
