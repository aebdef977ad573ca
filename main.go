package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/database"
	"github.com/zrxcoding/Gaming/internal/config"
	"github.com/zrxcoding/Gaming/internal/handlers"
	"github.com/zrxcoding/Gaming/internal/jobs"
	"github.com/zrxcoding/Gaming/internal/logger"
	"github.com/zrxcoding/Gaming/internal/routes"
	"github.com/zrxcoding/Gaming/internal/services"
	"github.com/zrxcoding/Gaming/internal/storage"
)

const version = "1.0.0"

func main() {
	// Load .env file for local development
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Info("No .env file found, using environment variables")
	}

	profiles, err := openProfileStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize profile store", zap.Error(err))
	}
	defer func() {
		if err := profiles.Close(); err != nil {
			log.Error("Failed to close profile store", zap.Error(err))
		}
	}()

	sessionStore, err := openSessionStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize session store", zap.Error(err))
	}

	sessionManager := services.NewSessionManager(sessionStore, cfg.SessionIdleTimeout, log)
	resolver := services.NewProfileResolver(services.DefaultCatalog())
	conversation := services.NewConversation(sessionManager, profiles, resolver, cfg.BotPassword, log)

	var sender services.MessageSender
	if cfg.TwilioConfigured() {
		twilioService, err := services.NewTwilioService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, log)
		if err != nil {
			log.Fatal("Failed to initialize Twilio service", zap.Error(err))
		}
		sender = twilioService
		log.Info("Twilio service initialized")
	} else {
		log.Warn("Twilio credentials not found - replies will only be logged")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := jobs.NewSessionSweeper(sessionManager, cfg.SessionSweepInterval, log)
	sweeper.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName: "Gaming Utility Bot v" + version,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})
	app.Use(recover.New())

	whatsappHandler := handlers.NewWhatsAppHandler(conversation, sender, log)
	healthHandler := handlers.NewHealthHandler(version, cfg.ProfileBackend, sessionManager)
	routes.SetupRoutes(app, whatsappHandler, healthHandler, routes.Options{
		ValidateWebhook:  cfg.ValidateWebhook(),
		TwilioAuthToken:  cfg.TwilioAuthToken,
		EnableTestRoutes: cfg.IsDevelopment(),
	}, log)

	go func() {
		<-ctx.Done()
		log.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	log.Info("Gaming Utility Bot starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("profile_backend", cfg.ProfileBackend),
		zap.String("session_backend", cfg.SessionBackend),
		zap.Duration("session_idle_timeout", cfg.SessionIdleTimeout),
	)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("Server failed", zap.Error(err))
	}
	stop()
	<-sweeper.Done()
	log.Info("Server stopped")
}

func openProfileStore(cfg *config.Config, log *zap.Logger) (storage.ProfileStore, error) {
	switch cfg.ProfileBackend {
	case config.BackendMemory:
		log.Warn("Using in-memory profile storage (not for production!)")
		return storage.NewMemoryStore(), nil

	case config.BackendPostgres:
		log.Info("Connecting to PostgreSQL database...")
		db, err := database.Connect(cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		store := storage.NewDatabaseStore(db)
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, err
		}
		log.Info("Database migrations completed")
		return store, nil
	}

	log.Info("Using profile file", zap.String("path", cfg.ProfilesFile))
	return storage.NewFileStore(cfg.ProfilesFile, log)
}

func openSessionStore(cfg *config.Config, log *zap.Logger) (storage.SessionStore, error) {
	if cfg.SessionBackend != config.BackendRedis {
		return storage.NewMemorySessionStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("Using Redis session storage", zap.String("addr", cfg.RedisAddr))
	return storage.NewRedisSessionStore(client, cfg.SessionIdleTimeout), nil
}
