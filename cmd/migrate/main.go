package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/salvex/salvex-api/config"
	"github.com/salvex/salvex-api/pkg/db"
	"github.com/salvex/salvex-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", string(db.Up), "migration direction: up or down")
	path := flag.String("path", "file://migrations", "migrations source URL")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: "salvex-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Database.WorkOffline {
		logger.Info("DB_WORK_OFFLINE is set, nothing to migrate")
		return
	}

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)),
		zap.String("direction", *direction))

	tlsCfg := db.TLSConfig{
		CACertPath: cfg.Database.CACertPath,
		ServerName: cfg.Database.TLSServerName,
	}
	if err := db.RunMigrations(cfg.Database.URL, *path, tlsCfg, db.Direction(*direction)); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides the password in the database URL for logging
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
