package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"donutsmp/api"
	"donutsmp/auth"
	"donutsmp/config"
	"donutsmp/database"
	"donutsmp/events"
	"donutsmp/infrastructure"
	"donutsmp/quiz"
	"donutsmp/repository"
	"donutsmp/service"
	"donutsmp/session"
	"donutsmp/workers"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting donutsmp server...")

	cfg := config.Get()
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)

	log.Info("Running database migrations...")
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnectionWithOptions(ctx, databaseURL, database.PoolOptions{
		MaxConns:        cfg.DatabaseMaxConns,
		MaxConnLifetime: cfg.DatabaseMaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully")

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	engine := quiz.DefaultEngine()
	accountService := service.NewAccountService(uowFactory, engine)
	maintenanceService := service.NewMaintenanceService(uowFactory)

	sessionStore, closeStore, err := newSessionStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()
	sessions := session.NewManager(sessionStore, session.Options{
		TTL:          cfg.SessionTTL,
		SecureCookie: cfg.CookieSecure,
	})

	infrastructure.NewDiscordWebhookNotifier(cfg.DiscordWebhookURL, cfg.OutboundTimeout).Register(eventBus)

	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers, cfg.OutboundTimeout)
		if err := natsClient.Connect(ctx); err != nil {
			return err
		}
		defer natsClient.Close()
		if err := natsClient.EnsureEventStream(); err != nil {
			return err
		}
		infrastructure.NewNATSEventRelay(natsClient).Register(eventBus)
	}

	maintenance := workers.NewMaintenance(cfg.MaintenanceSchedule, sessions, maintenanceService)
	if err := maintenance.Start(); err != nil {
		return err
	}
	defer func() { <-maintenance.Stop().Done() }()

	provider := auth.NewDiscordProvider(auth.DiscordConfig{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.DiscordRedirectURI,
		Timeout:      cfg.OutboundTimeout,
	})
	handler := api.NewHandler(
		accountService,
		engine,
		sessions,
		provider,
		auth.NewStateSigner(cfg.SessionSecret, cfg.CookieSecure),
		cfg.LoginSuccessPath,
	)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":        server.Addr,
			"environment": cfg.Environment,
		}).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server stopped unexpectedly: %w", err)
		}
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

// newSessionStore returns the Redis store when REDIS_URL is set and the
// Postgres store otherwise
func newSessionStore(ctx context.Context, cfg *config.Config, db *database.DB) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		log.Info("Using PostgreSQL session store")
		return repository.NewSessionRepository(db), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Using Redis session store")
	return session.NewRedisStore(client, ""), func() { client.Close() }, nil
}
