// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StoryNest/storynest-go/internal/application/container"
	schema "github.com/StoryNest/storynest-go/internal/infrastructure/database"
	"github.com/StoryNest/storynest-go/internal/infrastructure/observability/logging"
	"github.com/StoryNest/storynest-go/internal/infrastructure/persistence/database"
	"github.com/StoryNest/storynest-go/internal/infrastructure/security"
	"github.com/StoryNest/storynest-go/internal/presentation/http/server"
	"github.com/StoryNest/storynest-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	log.Println("\033[32m" + `

  ▄▄▄▄ ▄▄▄▄▄ ▄▄▄▄  ▄▄▄▄  ▄▄  ▄▄ ▄▄ ▄▄ ▄▄▄▄▄ ▄▄▄▄ ▄▄▄▄▄
  ██▄▄   ██  ██ ██ ██▄█▀  ▀█▄▄█▀ ██▀███ ██▄  ██▄▄   ██
     ██  ██  ██ ██ ██ ▀█▄   ██   ██ ▀██ ██▀    ▄██  ██
  ▀▀▀▀   ▀▀  ▀▀▀▀  ▀▀  ▀▀   ▀▀   ▀▀  ▀▀ ▀▀▀▀▀ ▀▀▀▀  ▀▀
` + "\033[97m" + `
  a library of stories for little readers
` + "\033[0m")

	// Step 1: Bring up the channeled logger first so every later phase,
	// the database layer included, logs through it
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	if err := ensureJWTSecret(logger); err != nil {
		return fmt.Errorf("failed to establish JWT secret: %w", err)
	}

	// Step 2: Open the catalog database
	log.Println("Opening catalog database...")
	db, err := openDatabase(logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(config.DBMaxOpenConns)
	db.SetMaxIdleConns(config.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	db.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	// Step 3: Ensure the schema and bootstrap admin exist
	log.Println("Ensuring database schema...")
	tableCreator := schema.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := tableCreator.SeedAdminUser(db.DB, config.AdminEmail, config.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	// Step 4: Create dependency injection container
	log.Println("Initializing dependency injection container...")
	appContainer, err := container.NewContainer(db.DB, logger)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	logger.Startup().Info("Container initialization complete")
	logger.LogStartupPhase("container", time.Since(start), true)

	// Step 5: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	startServerTime := time.Now()

	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port, "duration", time.Since(startServerTime))

	// Step 6: Setup graceful shutdown
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	totalStartupTime := time.Since(start)
	logger.LogStartupPhase("ready", totalStartupTime, true)
	logger.Startup().Info("Application startup complete",
		"totalDuration", totalStartupTime,
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing database...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	elapsed := time.Since(start)
	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", elapsed,
		"shutdownDuration", time.Since(shutdownStart))
	logger.Close()

	return nil
}

// newLogger builds the channeled logger from environment configuration.
func newLogger() (*logging.ChanneledLogger, error) {
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDirectory
	if config.LogVerboseSQL {
		loggerConfig.ChannelLevels[logging.ChannelDatabase] = slog.LevelDebug
	}
	return logging.NewChanneledLogger(loggerConfig)
}

// ensureJWTSecret guarantees a non-empty signing key. Without one every
// auth cookie would verify against the empty string, so a missing
// JWT_SECRET gets a generated ephemeral key instead.
func ensureJWTSecret(logger *logging.ChanneledLogger) error {
	if config.JWTSecret != "" {
		return nil
	}

	key, err := security.GenerateSecureKey(64)
	if err != nil {
		return err
	}
	config.JWTSecret = key
	logger.System().Warn("JWT_SECRET is not set, generated an ephemeral signing key",
		"note", "sessions will not survive a restart")
	return nil
}

// openDatabase picks the configured driver. Local deployments use the
// bundled sqlite file, hosted ones point DB_URL at a libsql server.
func openDatabase(logger *logging.ChanneledLogger) (*database.DB, error) {
	switch config.DBDriver {
	case "libsql":
		if config.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required for the libsql driver")
		}
		if err := database.TestRemoteConnectionWithLogger(config.DBURL, config.DBAuthToken, logger); err != nil {
			return nil, fmt.Errorf("remote database unreachable: %w", err)
		}
		dsn := config.DBURL
		if config.DBAuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", config.DBURL, config.DBAuthToken)
		}
		return database.NewConnectionWithLogger("libsql", dsn, logger)
	default:
		return database.NewConnectionWithLogger("sqlite3", config.DBPath, logger)
	}
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
