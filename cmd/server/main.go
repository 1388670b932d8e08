package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getmelinks/getmelinks/internal/config"
	"github.com/getmelinks/getmelinks/internal/database"
	"github.com/getmelinks/getmelinks/internal/email"
	"github.com/getmelinks/getmelinks/internal/handler"
	"github.com/getmelinks/getmelinks/internal/logger"
	"github.com/getmelinks/getmelinks/internal/middleware"
	"github.com/getmelinks/getmelinks/internal/repository"
	"github.com/getmelinks/getmelinks/internal/router"
	"github.com/getmelinks/getmelinks/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("environment", cfg.Environment).Msg("starting GetMeLinks contact API")

	// Connect to PostgreSQL
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("connected to PostgreSQL")

	// Connect to Redis, only needed for rate limiting
	var rdb *database.Redis
	if cfg.RateLimiting.Enabled {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("connected to Redis")
	}

	// Initialize repositories
	contactRepo := repository.NewContactRepository(db)

	// Initialize the mail sender. Notifications are best-effort, so a
	// missing configuration disables them instead of refusing to start.
	notifier := buildNotifier(cfg, log)

	// Initialize services
	contactSvc := service.NewContactService(contactRepo, notifier, log)

	// Initialize handlers
	h := handler.New(contactSvc, rdb, log, cfg)

	// Initialize middleware
	mw := middleware.New(rdb, log, cfg)

	// Set up router
	r := router.New(h, mw, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// buildNotifier wires the Gmail sender and the notification service from
// config. It returns nil when email is not configured, which disables
// notifications.
func buildNotifier(cfg *config.Config, log *logger.Logger) service.Notifier {
	if cfg.Email.NotifyTo == "" {
		log.Warn().Msg("email.notify_to not set, contact notifications disabled")
		return nil
	}

	ctx := context.Background()
	gmailCfg := cfg.Email.Gmail

	var sender email.Sender
	var err error
	switch {
	case gmailCfg.CredentialsJSON != "":
		sender, err = email.NewGmailSender(ctx, email.GmailConfig{
			CredentialsJSON: gmailCfg.CredentialsJSON,
			SenderAddress:   gmailCfg.SenderAddress,
			SenderName:      gmailCfg.SenderName,
		})
	case gmailCfg.RefreshToken != "":
		sender, err = email.NewGmailSenderWithToken(ctx,
			gmailCfg.ClientID, gmailCfg.ClientSecret, gmailCfg.RefreshToken,
			gmailCfg.SenderAddress, gmailCfg.SenderName)
	default:
		log.Warn().Msg("gmail credentials not set, contact notifications disabled")
		return nil
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gmail sender")
	}

	log.Info().Str("notify_to", cfg.Email.NotifyTo).Msg("contact notifications enabled")
	return service.NewNotificationService(sender, cfg.Email.AppName, cfg.Email.NotifyTo, log)
}
