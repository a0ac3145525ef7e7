package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/planner/internal/adapters/http"
	natsadapter "github.com/samirrijal/planner/internal/adapters/nats"
	"github.com/samirrijal/planner/internal/adapters/postgres"
	"github.com/samirrijal/planner/internal/adapters/smtp"
	"github.com/samirrijal/planner/internal/adapters/valkey"
	"github.com/samirrijal/planner/internal/core/ports"
	"github.com/samirrijal/planner/internal/core/usecases"
	"github.com/samirrijal/planner/internal/pkg/config"
	"github.com/samirrijal/planner/internal/pkg/logging"
	"github.com/samirrijal/planner/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("planner-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache (optional; reads fall through to the database without it)
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS event publisher (optional)
	var events ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
		events = nc
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Mailer
	var mailer ports.Mailer
	switch cfg.Mail.Mode {
	case "smtp":
		mailer = smtp.New(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password)
	default:
		mailer = smtp.NewLog()
	}

	// Repos
	tripRepo := postgres.NewTripRepo(db)
	participantRepo := postgres.NewParticipantRepo(db)

	// Use cases
	links := usecases.Links{APIBase: cfg.App.APIBaseURL, WebBase: cfg.App.WebBaseURL}
	mail := usecases.Mail{
		Sender: ports.Address{Name: cfg.Mail.SenderName, Email: cfg.Mail.SenderEmail},
		Links:  links,
	}
	tripSvc := usecases.NewTripService(tripRepo, participantRepo, mailer, events, cacheSvc, mail)
	inviteSvc := usecases.NewInviteService(tripRepo, participantRepo, mailer, events, cacheSvc, mail)
	confirmSvc := usecases.NewConfirmationService(tripRepo, mailer, events, cacheSvc, mail,
		usecases.FanoutPolicy(cfg.Mail.FanoutPolicy))
	participantSvc := usecases.NewParticipantService(participantRepo, events, cacheSvc)

	deps := &http.Dependencies{
		Trips:         tripSvc,
		Invites:       inviteSvc,
		Confirmations: confirmSvc,
		Participants:  participantSvc,
		Links:         links,
		NATS:          natsConn,
		DB:            db,
		Cache:         cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Planner API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.plann.er",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
