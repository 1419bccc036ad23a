package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/feas-hq/allocation-system/internal/api/handler"
	"github.com/feas-hq/allocation-system/internal/api/middleware"
	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/service"
	"github.com/feas-hq/allocation-system/internal/infrastructure/config"
	mongostore "github.com/feas-hq/allocation-system/internal/infrastructure/db/mongo"
	"github.com/feas-hq/allocation-system/internal/infrastructure/db/postgres"
	redisstore "github.com/feas-hq/allocation-system/internal/infrastructure/db/redis"
	"github.com/feas-hq/allocation-system/internal/infrastructure/directory"
	"github.com/feas-hq/allocation-system/internal/infrastructure/http/handlers"
	"github.com/feas-hq/allocation-system/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, pool *pgxpool.Pool, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("feas"))

	// --- Dependencies ---
	directoryClient := directory.NewClient(cfg.Directory, logger.Component("directory"))
	sessionStore := redisstore.NewSessionStore(rdb)
	snapshotRepo := mongostore.NewDirectoryRepository(db)
	allocationRepo := postgres.NewAllocationRepository(pool)

	resolver := service.NewRoleResolver(cfg.Directory.AdminGroups, logger.Component("auth"))
	authService := service.NewAuthService(directoryClient, sessionStore, resolver, service.AuthConfig{
		SuperadminUsername:     cfg.Superadmin.Username,
		SuperadminPassword:     cfg.Superadmin.Password,
		SuperadminPasswordHash: cfg.Superadmin.PasswordHash,
		SessionTTL:             cfg.Session.TTL,
		TokenSecret:            cfg.Session.TokenSecret,
		TokenTTL:               cfg.Session.TokenTTL,
	}, logger.Component("auth"))
	dashboardService := service.NewDashboardService(allocationRepo, snapshotRepo, directoryClient, logger.Component("dashboard"))
	syncService := service.NewDirectorySyncService(directoryClient, snapshotRepo, cfg.Directory.SyncWorkers, logger.Component("sync"))
	menuService := service.NewMenuBuilder()

	authHandler := handler.NewAuthHandler(authService, cfg.Session.CookieName, cfg.Env != "development")
	menuHandler := handler.NewMenuHandler(menuService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	directoryHandler := handler.NewDirectoryHandler(snapshotRepo, syncService)

	gate := middleware.Auth(authService, cfg.Session.CookieName)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session, gate)
	e.POST("/auth/token", authHandler.Token, gate)

	// --- Data API (all gate-protected, RBAC per route) ---
	v1 := e.Group("/v1", gate)
	v1.GET("/menu", menuHandler.Menu)
	v1.GET("/dashboard/summary", dashboardHandler.Summary)
	v1.GET("/dashboard/hours-series", dashboardHandler.HoursSeries,
		middleware.RBAC(domain.RoleAdmin, domain.RolePDL))
	v1.GET("/dashboard/program-breakdown", dashboardHandler.ProgramBreakdown,
		middleware.RBAC(domain.RoleAdmin, domain.RolePDL))
	v1.GET("/reportees", dashboardHandler.Reportees,
		middleware.RBAC(domain.RoleAdmin, domain.RolePDL, domain.RoleTeamLead, domain.RoleCOELeader))
	v1.GET("/directory/search", directoryHandler.Search,
		middleware.RBAC(domain.RoleAdmin, domain.RolePDL, domain.RoleTeamLead, domain.RoleCOELeader))
	v1.POST("/directory/sync", directoryHandler.Sync,
		middleware.RBAC(domain.RoleAdmin, domain.RolePDL))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb, pool)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
