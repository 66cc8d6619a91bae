package audit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"auditdesk/internal/domain"
	"auditdesk/internal/ports"
)

const (
	// recentExecutionLimit is how many of the latest fills appear as
	// execution rows.
	recentExecutionLimit = 10
	// recentWindowLimit is the fill window shared by the risk and anomaly
	// computations.
	recentWindowLimit = 100
	// accuracyWindow is the trailing window for the per-weekday accuracy.
	accuracyWindow = 7 * 24 * time.Hour
)

// Config holds the engine's business constants. The defaults mirror the
// dashboard's historical values; they are knobs rather than literals so a
// real risk/telemetry source can replace them later.
type Config struct {
	BaseCapital      float64 // leverage denominator
	MaxLeverage      float64 // fixed leverage ceiling
	AnomalyThreshold float64 // coefficient of variation (%) spike cutoff
	AnomalyHighMark  float64 // coefficient above which severity is "high"
	SystemUptime     string
	AvgLatency       string
}

func (c *Config) applyDefaults() {
	if c.BaseCapital == 0 {
		c.BaseCapital = 10000
	}
	if c.MaxLeverage == 0 {
		c.MaxLeverage = 50
	}
	if c.AnomalyThreshold == 0 {
		c.AnomalyThreshold = 5
	}
	if c.AnomalyHighMark == 0 {
		c.AnomalyHighMark = 10
	}
	if c.SystemUptime == "" {
		c.SystemUptime = "99.9%"
	}
	if c.AvgLatency == "" {
		c.AvgLatency = "12ms"
	}
}

// Service is the audit/analytics engine behind the audit-room report. It is
// a pure function of (fill history, override snapshot, current time) plus
// one side-effecting save; it holds no state of its own.
type Service struct {
	cfg       Config
	logger    ports.Logger
	fills     ports.FillStore
	overrides ports.OverrideStore
	now       func() time.Time
}

// NewService creates a new audit engine instance.
func NewService(cfg Config, logger ports.Logger, fills ports.FillStore, overrides ports.OverrideStore) (*Service, error) {
	// Validate dependencies
	if logger == nil || fills == nil || overrides == nil {
		return nil, fmt.Errorf("missing required dependencies for audit service")
	}
	cfg.applyDefaults()
	if cfg.BaseCapital <= 0 {
		return nil, fmt.Errorf("configuration BaseCapital must be positive")
	}
	if cfg.MaxLeverage <= 0 {
		return nil, fmt.Errorf("configuration MaxLeverage must be positive")
	}
	return &Service{
		cfg:       cfg,
		logger:    logger,
		fills:     fills,
		overrides: overrides,
		now:       time.Now,
	}, nil
}

// reportInputs collects the independently fetched slices the calculators
// operate on. Each field is filled by its own store read.
type reportInputs struct {
	weekly       []*domain.TradeFill // trailing 7 days, any status
	recent       []*domain.TradeFill // latest fills for the execution rows
	filled       []*domain.TradeFill // status Filled, full history
	recentWindow []*domain.TradeFill // latest 100 fills for risk + anomalies
	totalFilled  int
	rejected     int
	snapshot     *domain.AuditReport
}

// GetAuditReport computes the audit-room report.
//
// The per-weekday accuracy is always computed fresh. If a saved override
// snapshot carries execution rows or strategy performance, the snapshot's
// remaining sections are returned verbatim in place of computed ones; the
// freshly computed accuracy still wins unless it is empty. Otherwise every
// section is computed from the fill history.
func (s *Service) GetAuditReport(ctx context.Context) (*domain.AuditReport, error) {
	now := s.now()

	// The reads are independent and none mutate state, so they fan out
	// concurrently under the caller's context.
	in := &reportInputs{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.weekly, err = s.fills.Query(gctx, ports.FillQuery{From: now.Add(-accuracyWindow)})
		return err
	})
	g.Go(func() (err error) {
		in.recent, err = s.fills.Query(gctx, ports.FillQuery{Limit: recentExecutionLimit, SortDesc: true})
		return err
	})
	g.Go(func() (err error) {
		in.filled, err = s.fills.Query(gctx, ports.FillQuery{Status: domain.StatusFilled})
		return err
	})
	g.Go(func() (err error) {
		in.recentWindow, err = s.fills.Query(gctx, ports.FillQuery{Limit: recentWindowLimit, SortDesc: true})
		return err
	})
	g.Go(func() (err error) {
		in.totalFilled, err = s.fills.CountByStatus(gctx, domain.StatusFilled)
		return err
	})
	g.Go(func() (err error) {
		in.rejected, err = s.fills.CountByStatus(gctx, domain.StatusRejected)
		return err
	})
	g.Go(func() (err error) {
		in.snapshot, err = s.overrides.Get(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("audit report fan-out failed: %w", err)
	}

	fresh := dailyAccuracy(in.weekly)

	if in.snapshot != nil && in.snapshot.HasOverrideData() {
		s.logger.Debug(ctx, "Serving audit report from override snapshot")
		report := &domain.AuditReport{
			RecentExecutions:      ensureExecutions(in.snapshot.RecentExecutions),
			PerformanceByStrategy: ensurePerformance(in.snapshot.PerformanceByStrategy),
			RiskMetrics:           ensureRisk(in.snapshot.RiskMetrics),
			Anomalies:             ensureAnomalies(in.snapshot.Anomalies),
			ComplianceLogs:        s.ensureCompliance(in.snapshot.ComplianceLogs),
			DailyAccuracy:         fresh,
		}
		if len(fresh) == 0 {
			report.DailyAccuracy = ensureAccuracy(in.snapshot.DailyAccuracy)
		}
		return report, nil
	}

	s.logger.Debug(ctx, "Computing audit report from fill history", map[string]interface{}{
		"weeklyFills": len(in.weekly), "recentWindow": len(in.recentWindow),
	})
	return &domain.AuditReport{
		RecentExecutions:      formatExecutions(in.recent, recentExecutionLimit),
		PerformanceByStrategy: aggregatePerformance(in.filled),
		RiskMetrics:           estimateRisk(in.recentWindow, s.cfg.BaseCapital, s.cfg.MaxLeverage),
		Anomalies:             detectAnomalies(in.recentWindow, now, s.cfg.AnomalyThreshold, s.cfg.AnomalyHighMark),
		DailyAccuracy:         fresh,
		ComplianceLogs:        buildCompliance(in.totalFilled, in.rejected, s.cfg.SystemUptime, s.cfg.AvgLatency),
	}, nil
}

// SaveAuditOverride unconditionally replaces the singleton override snapshot
// with the supplied report and returns it. There is no field-level merge; the
// next GetAuditReport call evaluates the new snapshot as a whole.
func (s *Service) SaveAuditOverride(ctx context.Context, report *domain.AuditReport) (*domain.AuditReport, error) {
	if report == nil {
		return nil, fmt.Errorf("override report is required: %w", ports.ErrInvalidRequest)
	}
	if err := s.overrides.Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save audit override: %w", err)
	}
	s.logger.Info(ctx, "Audit override snapshot saved", map[string]interface{}{
		"executions": len(report.RecentExecutions),
		"strategies": len(report.PerformanceByStrategy),
	})
	return report, nil
}

// The ensure helpers substitute empty slices for absent snapshot sections so
// the report always marshals as [] rather than null.

func ensureExecutions(v []domain.ExecutionRow) []domain.ExecutionRow {
	if v == nil {
		return []domain.ExecutionRow{}
	}
	return v
}

func ensurePerformance(v []domain.StrategyPerformance) []domain.StrategyPerformance {
	if v == nil {
		return []domain.StrategyPerformance{}
	}
	return v
}

func ensureRisk(v []domain.RiskMetricRow) []domain.RiskMetricRow {
	if v == nil {
		return []domain.RiskMetricRow{}
	}
	return v
}

func ensureAnomalies(v []domain.AnomalyEvent) []domain.AnomalyEvent {
	if v == nil {
		return []domain.AnomalyEvent{}
	}
	return v
}

func ensureAccuracy(v []domain.DailyAccuracy) []domain.DailyAccuracy {
	if v == nil {
		return []domain.DailyAccuracy{}
	}
	return v
}

// ensureCompliance substitutes a placeholder compliance summary when the
// snapshot omitted the section entirely; the zero-value struct never reaches
// clients.
func (s *Service) ensureCompliance(v domain.ComplianceLogs) domain.ComplianceLogs {
	if v == (domain.ComplianceLogs{}) {
		return domain.ComplianceLogs{
			RiskCompliance:   "100%",
			PolicyViolations: 0,
			SystemUptime:     s.cfg.SystemUptime,
			AvgLatency:       s.cfg.AvgLatency,
		}
	}
	return v
}
