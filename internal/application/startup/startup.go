// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-builder/internal/application/container"
	"github.com/AtRiskMedia/tractstack-builder/internal/application/services"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/library"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-builder/internal/presentation/http/server"
	"github.com/AtRiskMedia/tractstack-builder/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until shutdown.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Channeled logger
	logger, err := NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Initializing page builder service")

	// Step 2: Database
	phaseStart := time.Now()
	db, err := database.Open(database.Config{
		SQLitePath:      config.SQLitePath,
		TursoEnabled:    config.TursoEnabled,
		TursoURL:        config.TursoDatabaseURL,
		TursoToken:      config.TursoAuthToken,
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	logger.LogStartupPhase("database", time.Since(phaseStart), true, map[string]any{"backend": db.ConnectionInfo()})

	// Step 3: Dependency injection container
	authConfig := services.AuthConfig{PasswordHash: config.EditorPasswordHash, JWTSecret: config.JWTSecret}
	if err := authConfig.Validate(); err != nil {
		return err
	}
	appContainer := container.NewContainer(db, logger)
	if !appContainer.AuthService.Configured() {
		logger.Startup().Warn("EDITOR_PASSWORD_HASH and JWT_SECRET not set; editor routes are unauthenticated")
	}

	// Step 4: Layout library seed
	phaseStart = time.Now()
	stored, err := library.Seed(config.LibrarySeedPath, appContainer.LibraryRepository, logger)
	if err != nil {
		logger.Startup().Error("Library seed failed", "error", err.Error(), "path", config.LibrarySeedPath)
	}
	logger.LogStartupPhase("library_seed", time.Since(phaseStart), err == nil, map[string]any{"stored": stored})

	// Step 5: Background workers
	go appContainer.Hub.Run(ctx)
	cleanupWorker := cleanup.NewWorker(appContainer.SessionStore, cleanup.NewConfig(), logger, appContainer.EditorService.Evicted)
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background workers started")

	// Step 6: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			gracefulShutdown <- syscall.SIGTERM
		}
	}()

	logger.Startup().Info("Application startup complete", "totalDuration", time.Since(start), "port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	shutdownStart := time.Now()

	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"openSessions", appContainer.SessionStore.Len(),
		"shutdownDuration", time.Since(shutdownStart))
	return nil
}

// NewLogger builds the channeled logger from /pkg/config.
func NewLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSON
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg.DefaultLevel = level
	return logging.NewChanneledLogger(cfg)
}

// setupLogging configures the standard logger and gin mode
func setupLogging() {
	switch config.GinMode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(config.GinMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
