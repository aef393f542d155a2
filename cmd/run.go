package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tourney/application"
	"tourney/config"
	"tourney/database"
	"tourney/domain/interfaces"
	"tourney/infrastructure"
	"tourney/infrastructure/observability"
	"tourney/server"

	log "github.com/sirupsen/logrus"
)

var _ server.Platform = (*application.Platform)(nil)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	setupLogging(cfg.LogLevel, cfg.LogFormat)
	log.WithField("environment", cfg.Environment).Info("Starting tourney service...")

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize metrics
	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error shutting down metrics provider")
		}
	}()

	// Initialize event publisher
	publisher, closeNATS, err := newEventPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeNATS()
	eventPublisher := infrastructure.NewMetricsEventPublisher(publisher, metrics)

	// Initialize unit of work factory
	log.Info("Initializing unit of work factory...")
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, cfg.LockTimeout, eventPublisher)
	platform := application.NewPlatform(uowFactory, cfg.AdminUsernames)

	// Initialize proof storage
	proofs, err := newProofStore(ctx, cfg)
	if err != nil {
		return err
	}

	// Start the room auto-close job
	worker := application.NewRoomCloseWorker(platform, cfg.RoomCloseGrace, cfg.RoomCloseInterval)
	stopWorker, err := worker.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start room close worker: %w", err)
	}
	defer stopWorker()

	srv := server.New(platform, proofs, db, metrics, server.Options{
		JWTSecret:      cfg.JWTSecretKey,
		TokenTTL:       cfg.TokenTTL,
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv.Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	log.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}
	log.Info("Shutdown completed")
	return nil
}

// newEventPublisher connects to NATS when enabled and otherwise returns a
// publisher that drops events
func newEventPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	if !cfg.NATSEnabled {
		log.Info("NATS disabled, domain events will not be published")
		return infrastructure.NewNoopEventPublisher(), func() {}, nil
	}

	log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
	client := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	publisher := infrastructure.NewNATSEventPublisher(client, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureDomainEventStream(client); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	log.Info("NATS event publisher initialized successfully")

	return publisher, func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}, nil
}

func newProofStore(ctx context.Context, cfg *config.Config) (infrastructure.ProofStore, error) {
	if cfg.ProofStore == "r2" {
		store, err := infrastructure.NewR2ProofStore(ctx, infrastructure.R2Config{
			AccountID:       cfg.CloudflareAccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			BucketName:      cfg.R2BucketName,
			CDNBaseURL:      cfg.CDNBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize R2 proof store: %w", err)
		}
		return store, nil
	}

	store, err := infrastructure.NewLocalProofStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local proof store: %w", err)
	}
	return store, nil
}
