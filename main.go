package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"syscall"
	"time"

	"auditdesk/config"
	"auditdesk/internal/adapters/logger"
	"auditdesk/internal/adapters/sqlite"
	"auditdesk/internal/audit"
	"auditdesk/internal/ports"
	"auditdesk/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	var appLogger ports.Logger
	if cfg.LogFormat == "json" {
		appLogger = logger.NewZerologLogger(cfg.LogLevel)
	} else {
		appLogger = logger.NewStdLogger(cfg.LogLevel)
	}
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()

	// 4. Initialize Audit Engine
	auditSvc, err := audit.NewService(audit.Config{
		BaseCapital:      cfg.BaseCapital,
		MaxLeverage:      cfg.MaxLeverage,
		AnomalyThreshold: cfg.AnomalyThreshold,
		AnomalyHighMark:  cfg.AnomalyHighMark,
		SystemUptime:     cfg.SystemUptime,
		AvgLatency:       cfg.AvgLatency,
	}, appLogger, repo, repo)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize audit service")
		log.Fatalf("FATAL: Failed to initialize audit service: %v", err)
	}

	// 5. Initialize HTTP Server
	srv, err := server.New(server.Config{ListenAddr: cfg.ListenAddr}, appLogger, auditSvc)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize HTTP server")
		log.Fatalf("FATAL: Failed to initialize HTTP server: %v", err)
	}

	// 6. Run until interrupted, then shut down gracefully.
	sgn := make(chan os.Signal, 1)
	signal.Notify(sgn, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sgn
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Error(ctx, err, "HTTP server shutdown failed")
		}
	}()

	if err := srv.Start(); err != nil {
		appLogger.Error(context.Background(), err, "HTTP server exited with error")
		os.Exit(1)
	}
	appLogger.Info(context.Background(), "Server stopped")
}
