package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"krubolab/internal/config"
	"krubolab/internal/database"
	"krubolab/internal/handler"
	"krubolab/internal/mail"
	"krubolab/internal/repository"
	"krubolab/internal/router"
	"krubolab/internal/seed"
	"krubolab/internal/service"
	"krubolab/internal/whatsapp"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting krubolab API server")

	if cfg.Admin.Password == "" {
		logger.Warn().Msg("ADMIN_PASSWORD is not set, admin login is disabled")
	}
	if !cfg.Backend.Configured() {
		logger.Warn().Msg("backend URL or anon key missing, /supabase-config will report an error")
	}

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	offeringRepo := repository.NewOfferingRepository(pool, logger)
	contactRepo := repository.NewContactRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	if cfg.Seed.Enabled {
		loader := newSeedLoader(ctx, cfg, logger)
		seeder := seed.NewSeeder(loader, productRepo, offeringRepo, contactRepo, logger)
		if _, err := seeder.Run(ctx, cfg.Seed.Files); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	notifier, err := newNotifier(cfg.Mail, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize mail notifier: %w", err)
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	offeringService := service.NewOfferingService(offeringRepo, logger)
	contactService := service.NewContactService(contactRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, notifier, whatsapp.NewBuilder(cfg.WhatsApp.Phone), logger)
	authService := service.NewAuthService(cfg.Admin.Password, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(pool, logger),
		Config:   handler.NewConfigHandler(cfg.Backend, logger),
		Auth:     handler.NewAuthHandler(authService, logger),
		Product:  handler.NewProductHandler(productService, logger),
		Offering: handler.NewOfferingHandler(offeringService, logger),
		Contact:  handler.NewContactHandler(contactService, logger),
		Order:    handler.NewOrderHandler(orderService, logger),
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth:           authService,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newSeedLoader reads seed documents from S3 when enabled, falling back to
// the local seed directory.
func newSeedLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) seed.Loader {
	fileLoader := seed.NewFileLoader(cfg.Seed.Dir, logger)
	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for seed documents (S3 disabled)")
		return fileLoader
	}

	s3Loader, err := seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}
	return seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, true, logger)
}

func newNotifier(cfg config.MailConfig, logger zerolog.Logger) (mail.Notifier, error) {
	if !cfg.Enabled {
		logger.Info().Msg("order mail disabled")
		return mail.NoopNotifier{}, nil
	}
	notifier, err := mail.NewSendGridNotifier(cfg.APIKey, cfg.FromName, cfg.FromEmail, cfg.AdminEmail, logger)
	if err != nil {
		return nil, err
	}
	return notifier, nil
}
