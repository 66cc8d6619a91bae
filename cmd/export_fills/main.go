package main

import (
	"context"
	"flag"
	"log"

	"auditdesk/config"
	"auditdesk/internal/adapters/logger"
	"auditdesk/internal/adapters/sqlite"
	"auditdesk/internal/ports"
	"auditdesk/internal/utils"
)

// Exports the full fill history to CSV for offline analysis.
func main() {
	out := flag.String("out", "fills.csv", "output CSV path")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger := logger.NewStdLogger(cfg.LogLevel)

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	fills, err := repo.Query(ctx, ports.FillQuery{SortDesc: true})
	if err != nil {
		log.Fatalf("FATAL: Failed to query fills: %v", err)
	}

	if err := utils.WriteFillsToCSV(fills, *out); err != nil {
		log.Fatalf("FATAL: Failed to write CSV: %v", err)
	}
	appLogger.Info(ctx, "Export complete", map[string]interface{}{"path": *out, "fills": len(fills)})
}
