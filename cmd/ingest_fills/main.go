package main

import (
	"context"
	"flag"
	"log"
	"time"

	"auditdesk/config"
	"auditdesk/internal/adapters/binanceclient"
	"auditdesk/internal/adapters/logger"
	"auditdesk/internal/adapters/sqlite"
)

// Pulls recent account trades from Binance futures and records them as fills,
// so the audit dashboard has real execution data to report on.
func main() {
	symbol := flag.String("symbol", "ETHUSDT", "symbol to ingest account trades for")
	strategy := flag.String("strategy", "binance-live", "strategy label to tag ingested fills with")
	limit := flag.Int("limit", 100, "maximum number of trades to fetch")
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

	client, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fills, err := client.RecentFills(ctx, *symbol, *strategy, *limit)
	if err != nil {
		log.Fatalf("FATAL: Failed to fetch account trades: %v", err)
	}

	inserted := 0
	for _, fill := range fills {
		if _, err := repo.InsertFill(ctx, fill); err != nil {
			appLogger.Error(ctx, err, "Failed to record fill", map[string]interface{}{"symbol": fill.Symbol})
			continue
		}
		inserted++
	}
	appLogger.Info(ctx, "Ingestion complete", map[string]interface{}{"symbol": *symbol, "fetched": len(fills), "recorded": inserted})
}
