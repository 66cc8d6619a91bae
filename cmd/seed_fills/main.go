package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"strconv"
	"time"

	"auditdesk/config"
	"auditdesk/internal/adapters/logger"
	"auditdesk/internal/adapters/sqlite"
	"auditdesk/internal/domain"
)

// Seeds the fill store with a synthetic trade history for local development
// and dashboard demos.

var (
	symbols = []string{"BTCUSDT", "ETHUSDT", "SOLUSDT", "XAUUSD"}
	prices  = map[string]float64{"BTCUSDT": 64000, "ETHUSDT": 2641.5, "SOLUSDT": 145, "XAUUSD": 2640}

	strategies = []string{"Drav", "Momentum", "MeanRevert"}

	statuses = []domain.FillStatus{
		domain.StatusFilled, domain.StatusFilled, domain.StatusFilled, domain.StatusFilled,
		domain.StatusFilled, domain.StatusFilled, domain.StatusPending,
		domain.StatusCancelled, domain.StatusRejected,
	}
)

func main() {
	count := flag.Int("count", 200, "number of fills to generate")
	days := flag.Int("days", 10, "spread fills over this many trailing days")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
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

	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < *count; i++ {
		symbol := symbols[rng.Intn(len(symbols))]
		base := prices[symbol]
		fill := &domain.TradeFill{
			Time:      now.Add(-time.Duration(rng.Int63n(int64(*days) * int64(24*time.Hour)))),
			Strategy:  strategies[rng.Intn(len(strategies))],
			Symbol:    symbol,
			Direction: domain.Long,
			Size:      strconv.FormatFloat(0.01+rng.Float64()*2, 'f', 2, 64),
			Price:     base * (1 + (rng.Float64()-0.5)*0.04),
			Status:    statuses[rng.Intn(len(statuses))],
		}
		if rng.Intn(2) == 0 {
			fill.Direction = domain.Short
		}

		// Roughly half the filled trades are already closed with an outcome.
		if fill.Status == domain.StatusFilled && rng.Intn(2) == 0 {
			win := rng.Float64() < 0.55
			pnl := rng.Float64() * 400
			r := 0.5 + rng.Float64()*3
			if !win {
				pnl = -pnl
				r = -r
			}
			entry := fill.Time.Add(-time.Duration(1+rng.Intn(6)) * time.Hour)
			fill.Win = &win
			fill.PNL = &pnl
			fill.RMultiple = &r
			fill.EntryTime = &entry
			fill.ExitTime = &fill.Time
		}

		if _, err := repo.InsertFill(ctx, fill); err != nil {
			log.Fatalf("FATAL: Failed to insert synthetic fill: %v", err)
		}
	}
	appLogger.Info(ctx, "Seeding complete", map[string]interface{}{"count": *count, "days": *days})
}
