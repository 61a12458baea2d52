package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/castellan-dev/castellan/internal/activity"
	"github.com/castellan-dev/castellan/internal/api"
	"github.com/castellan-dev/castellan/internal/api/handlers"
	"github.com/castellan-dev/castellan/internal/config"
	"github.com/castellan-dev/castellan/internal/db"
	"github.com/castellan-dev/castellan/internal/logger"
	"github.com/castellan-dev/castellan/internal/rbac"
	"github.com/castellan-dev/castellan/internal/tagging"
)

// Version is set via ldflags at build time
var Version = "dev"

// @title Castellan API
// @version 1.0
// @description IT asset management and inventory API
// @host localhost:8440
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	port := flag.Int("port", 0, "Port to run the server on (overrides config)")
	flag.Parse()

	// Set version in handlers
	handlers.Version = Version

	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Override port from CLI flag if provided
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Initialize logger
	logger.Init(cfg.Log.Format, cfg.Log.Level)
	slog.Info("Starting Castellan server", "version", Version, "mode", cfg.Server.Mode)

	// Initialize database
	database, err := db.New(cfg.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	slog.Info("Database initialized", "driver", cfg.Database.Driver)

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize RBAC enforcer before bootstrapping the admin user
	if err := rbac.InitEnforcer(database, slog.Default()); err != nil {
		slog.Error("Failed to initialize RBAC enforcer", "error", err)
		os.Exit(1)
	}

	// Create default admin user if configured
	if err := db.CreateDefaultAdmin(database, cfg.Auth); err != nil {
		slog.Error("Failed to create default admin user", "error", err)
		os.Exit(1)
	}

	// Register activity logging callbacks on the shared connection
	if err := activity.Register(database); err != nil {
		slog.Error("Failed to register activity callbacks", "error", err)
		os.Exit(1)
	}

	// Point the tag sequencer at the prefix config
	if cfg.Tags.PrefixFile != "" {
		tagging.SetConfigPath(cfg.Tags.PrefixFile)
	}

	// Ensure the instance has a stable identity
	instanceID, err := db.GetOrCreateInstanceID(database)
	if err != nil {
		slog.Error("Failed to initialize instance ID", "error", err)
		os.Exit(1)
	}
	slog.Info("Instance ready", "instance_id", instanceID)

	router := api.NewRouter(cfg, database)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
