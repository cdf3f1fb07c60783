package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/vendorflow/vendorflow-api/internal/application/auth"
	"github.com/vendorflow/vendorflow-api/internal/application/session"
	"github.com/vendorflow/vendorflow-api/internal/application/usecase"
	"github.com/vendorflow/vendorflow-api/internal/infrastructure/postgres"
	httpRouter "github.com/vendorflow/vendorflow-api/internal/interfaces/http"
	"github.com/vendorflow/vendorflow-api/pkg/config"
	"github.com/vendorflow/vendorflow-api/pkg/logger"
	"github.com/vendorflow/vendorflow-api/pkg/obs"
	"github.com/vendorflow/vendorflow-api/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.App.Name, cfg.App.Env, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("init tracer")
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Error().Err(err).Msg("tracer shutdown")
		}
	}()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	tenantRepo := postgres.NewTenantRepository(pool)

	authUC := auth.NewAuthUseCase(
		userRepo, tenantRepo,
		password.New(cfg.Auth.BcryptCost),
		password.New(cfg.Auth.AdminBcryptCost),
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		auth.Policy{
			MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
			LockDuration:     cfg.Auth.LockDuration,
		},
	)
	userUC := usecase.NewUserUseCase(userRepo)

	resolver := session.NewResolver(cfg.Session.StorageKeys)
	dest := session.Destinations{
		Login:             cfg.Session.LoginPath,
		VendorDashboard:   cfg.Session.VendorDashboard,
		SupplierDashboard: cfg.Session.SupplierDashboard,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI locally: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "VendorFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	sessionKey := ""
	if len(cfg.Session.StorageKeys) > 0 {
		sessionKey = cfg.Session.StorageKeys[0]
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     userUC,
		Resolver:   resolver,
		Dest:       dest,
		SessionKey: sessionKey,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log.Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
