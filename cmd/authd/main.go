package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/uptrace/bun"

	auth "github.com/wheretogonext/go-auth"
	"github.com/wheretogonext/go-auth/config"
	"github.com/wheretogonext/go-auth/logging"
	"github.com/wheretogonext/go-auth/repository"
	"github.com/wheretogonext/go-auth/social/providers/google"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	base := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(base)
	log := logging.NewSlogLogger(base)

	if err := run(cfg, log); err != nil {
		log.Error("authd stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logging.SlogLogger) error {
	ctx := context.Background()

	db, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set, auth endpoints will answer with a misconfiguration error")
	}

	app := newApp(cfg, db, log)

	go func() {
		sig := WaitExitSignal()
		log.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
		}
	}()

	log.Info("authd listening", "addr", cfg.Address(), "env", cfg.AppEnv, "prefix", cfg.RoutePrefix)

	return app.Listen(cfg.Address())
}

func newApp(cfg *config.Config, db *bun.DB, log *logging.SlogLogger) *fiber.App {
	store := repository.NewAccountRepository(db)

	tokens := auth.NewTokenServiceFromConfig(cfg, auth.WithTokenLogger(log.With("component", "tokens")))

	resolver := auth.NewIdentityResolver(store, tokens,
		auth.WithLogger(log.With("component", "resolver")),
		auth.WithPasswordHasher(auth.NewBcryptHasher(cfg.BcryptCost)),
		auth.WithExternalProvider(google.New(google.Config{
			UserInfoURL: cfg.GoogleUserInfoURL,
			Timeout:     cfg.GoogleTimeout,
		})),
		auth.WithHashIDs(cfg.HashIDs),
	)

	controller := auth.NewAuthController(resolver, cfg,
		auth.WithControllerLogger(log.With("component", "http")),
	)

	app := fiber.New(fiber.Config{
		AppName:               "authd",
		DisableStartupMessage: true,
		ErrorHandler:          auth.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	app.Get("/api/health", auth.HealthHandler(store)).Name("health")
	auth.RegisterAuthRoutes(app, controller)

	return app
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
