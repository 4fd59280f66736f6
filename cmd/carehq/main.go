package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "carehq/docs"
	"carehq/internal/analytics"
	"carehq/internal/caching"
	"carehq/internal/config"
	"carehq/internal/copilot"
	"carehq/internal/handlers"
	"carehq/internal/jobs/background"
	"carehq/internal/logging"
	"carehq/internal/middleware"
	"carehq/internal/repositories"
	"carehq/internal/services"
	"carehq/pkg/database"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Boot failures are fatal; a half-configured server must not serve.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.New(cfg.Env)

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := cacheSvc.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("connect redis")
	}

	storageSvc, err := services.NewMinioStorage(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect object storage")
	}
	if err := storageSvc.EnsureBucket(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ensure document bucket")
	}

	// Repositories
	residentRepo := repositories.NewResidentRepo(pool)
	bedRepo := repositories.NewBedRepo(pool)
	medicationRepo := repositories.NewMedicationRepo(pool)
	documentRepo := repositories.NewDocumentRepo(pool)
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	roleRepo := repositories.NewRoleRepo(pool)
	permissionRepo := repositories.NewPermissionRepo(pool)
	userRoleRepo := repositories.NewUserRoleRepo(pool)
	rolePermissionRepo := repositories.NewRolePermissionRepo(pool)
	auditLogsRepo := repositories.NewAuditLogsRepo(pool)

	// Services
	residentSvc := services.NewResidentService(residentRepo, bedRepo, cacheSvc)
	bedSvc := services.NewBedService(bedRepo)
	medicationSvc := services.NewMedicationService(medicationRepo, residentRepo)
	documentSvc := services.NewDocumentService(documentRepo, residentRepo, storageSvc)
	tenantSvc := services.NewTenantService(tenantRepo)
	userSvc := services.NewUserService(userRepo, userRoleRepo)
	roleSvc := services.NewRoleService(roleRepo, permissionRepo, rolePermissionRepo)
	rbacSvc := services.NewRBACService(rolePermissionRepo)
	auditSvc := services.NewAuditLogsService(auditLogsRepo)
	authSvc := services.NewAuthService(cacheSvc, cfg.JWTSecret, cfg.TokenTTL, cfg.RefreshTTL)
	provisioningSvc := services.NewProvisioningService(tenantSvc, userSvc, roleRepo, permissionRepo, rolePermissionRepo)
	analyticsSvc := analytics.NewAnalyticsService(bedRepo, residentRepo, cacheSvc)
	copilotSvc := copilot.New(cfg.CopilotURL, cfg.CopilotTimeout)

	// Token verification: shared secret by default, JWKS when configured.
	verifier := middleware.NewSecretVerifier(cfg.JWTSecret)
	if cfg.AuthJWKSURL != "" {
		verifier, err = middleware.NewJWKSVerifier(cfg.AuthJWKSURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("init jwks verifier")
		}
	}

	rbacMiddleware := middleware.NewRBACMiddleware(rbacSvc, auditSvc)
	auditMiddleware := middleware.NewAuditMiddleware(auditSvc)

	// Handlers
	residentHandlers := handlers.NewResidentHandlers(residentSvc)
	bedHandlers := handlers.NewBedHandlers(bedSvc)
	medicationHandlers := handlers.NewMedicationHandlers(medicationSvc)
	documentHandlers := handlers.NewDocumentHandlers(documentSvc)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	roleHandlers := handlers.NewRoleHandlers(roleSvc)
	auditHandlers := handlers.NewAuditLogHandlers(auditSvc)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc)
	copilotHandlers := handlers.NewCopilotHandlers(copilotSvc)
	authHandlers := handlers.NewAuthHandlers(authSvc, userSvc, rbacSvc, provisioningSvc, auditSvc, cacheSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, storageSvc)

	// Background jobs
	scheduler, err := background.NewJobScheduler(analyticsSvc, auditSvc, tenantSvc, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init scheduler")
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			logger.Error().Err(err).Msg("stop scheduler")
		}
	}()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	}))

	// Health and docs stay outside authentication.
	e.GET("/health/live", healthHandlers.Live)
	e.GET("/health/ready", healthHandlers.Ready)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.Use(auditMiddleware.AuditMutations())
	auth.POST("/signup", authHandlers.Signup)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/refresh", authHandlers.Refresh)
	auth.POST("/logout", authHandlers.Logout)

	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(verifier))
	protected.Use(auditMiddleware.AuditMutations())

	protected.GET("/auth/me", authHandlers.Me)

	protected.POST("/residents", residentHandlers.CreateResident, rbacMiddleware.RequirePermission("residents:write"))
	protected.GET("/residents", residentHandlers.ListResidents, rbacMiddleware.RequirePermission("residents:read"))
	protected.GET("/residents/:id", residentHandlers.GetResident, rbacMiddleware.RequirePermission("residents:read"))
	protected.PUT("/residents/:id", residentHandlers.UpdateResident, rbacMiddleware.RequirePermission("residents:write"))
	protected.DELETE("/residents/:id", residentHandlers.ArchiveResident, rbacMiddleware.RequirePermission("residents:archive"))

	protected.POST("/beds", bedHandlers.CreateBed, rbacMiddleware.RequirePermission("beds:write"))
	protected.GET("/beds", bedHandlers.ListBeds, rbacMiddleware.RequirePermission("beds:read"))
	protected.GET("/beds/:id", bedHandlers.GetBed, rbacMiddleware.RequirePermission("beds:read"))
	protected.PUT("/beds/:id", bedHandlers.UpdateBed, rbacMiddleware.RequirePermission("beds:write"))
	protected.DELETE("/beds/:id", bedHandlers.ArchiveBed, rbacMiddleware.RequirePermission("beds:archive"))

	protected.POST("/medications", medicationHandlers.CreateMedication, rbacMiddleware.RequirePermission("medications:write"))
	protected.GET("/medications", medicationHandlers.ListMedications, rbacMiddleware.RequirePermission("medications:read"))
	protected.GET("/medications/:id", medicationHandlers.GetMedication, rbacMiddleware.RequirePermission("medications:read"))
	protected.PUT("/medications/:id", medicationHandlers.UpdateMedication, rbacMiddleware.RequirePermission("medications:write"))
	protected.DELETE("/medications/:id", medicationHandlers.ArchiveMedication, rbacMiddleware.RequirePermission("medications:archive"))

	protected.POST("/documents", documentHandlers.UploadDocument, rbacMiddleware.RequirePermission("documents:write"))
	protected.GET("/documents", documentHandlers.ListDocuments, rbacMiddleware.RequirePermission("documents:read"))
	protected.GET("/documents/:id", documentHandlers.GetDocument, rbacMiddleware.RequirePermission("documents:read"))
	protected.GET("/documents/:id/download", documentHandlers.DownloadDocument, rbacMiddleware.RequirePermission("documents:read"))
	protected.PUT("/documents/:id", documentHandlers.UpdateDocument, rbacMiddleware.RequirePermission("documents:write"))
	protected.DELETE("/documents/:id", documentHandlers.ArchiveDocument, rbacMiddleware.RequirePermission("documents:archive"))

	protected.POST("/users", userHandlers.CreateUser, rbacMiddleware.RequirePermission("users:write"))
	protected.GET("/users", userHandlers.ListUsers, rbacMiddleware.RequirePermission("users:read"))
	protected.GET("/users/:id", userHandlers.GetUser, rbacMiddleware.RequirePermission("users:read"))
	protected.PUT("/users/:id", userHandlers.UpdateUser, rbacMiddleware.RequirePermission("users:write"))
	protected.POST("/users/:id/roles", userHandlers.AssignRole, rbacMiddleware.RequirePermission("roles:write"))

	protected.POST("/roles", roleHandlers.CreateRole, rbacMiddleware.RequirePermission("roles:write"))
	protected.GET("/roles", roleHandlers.ListRoles, rbacMiddleware.RequirePermission("roles:read"))
	protected.GET("/roles/:id", roleHandlers.GetRole, rbacMiddleware.RequirePermission("roles:read"))
	protected.DELETE("/roles/:id", roleHandlers.DeleteRole, rbacMiddleware.RequirePermission("roles:write"))
	protected.POST("/roles/:id/permissions", roleHandlers.GrantPermission, rbacMiddleware.RequirePermission("roles:write"))
	protected.DELETE("/roles/:id/permissions/:permission", roleHandlers.RevokePermission, rbacMiddleware.RequirePermission("roles:write"))
	protected.GET("/permissions", roleHandlers.ListPermissionCatalog, rbacMiddleware.RequirePermission("roles:read"))

	protected.GET("/tenant", tenantHandlers.GetTenant, rbacMiddleware.RequirePermission("tenants:read"))
	protected.PUT("/tenant", tenantHandlers.UpdateTenant, rbacMiddleware.RequirePermission("tenants:write"))
	protected.GET("/admin/tenants", tenantHandlers.ListTenants, rbacMiddleware.RequirePermission("tenants:read"))

	protected.GET("/audit-logs", auditHandlers.ListAuditLogs, rbacMiddleware.RequirePermission("audit_logs:read"))
	protected.GET("/audit-logs/:id", auditHandlers.GetAuditLog, rbacMiddleware.RequirePermission("audit_logs:read"))
	protected.GET("/audit-logs/history/:table/:id", auditHandlers.EntityHistory, rbacMiddleware.RequirePermission("audit_logs:read"))

	protected.GET("/analytics/occupancy", analyticsHandlers.Occupancy, rbacMiddleware.RequirePermission("analytics:read"))
	protected.GET("/analytics/census", analyticsHandlers.Census, rbacMiddleware.RequirePermission("analytics:read"))

	protected.GET("/copilot/suggestions", copilotHandlers.Suggestions, rbacMiddleware.RequirePermission("residents:read"))

	// Serve, then drain on SIGINT/SIGTERM.
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()
	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("carehq server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
