package audit

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditdesk/internal/domain"
	"auditdesk/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// memFillStore is an in-memory ports.FillStore applying the same filtering
// semantics as the SQLite adapter.
type memFillStore struct {
	fills []*domain.TradeFill
	err   error
}

func (s *memFillStore) Query(_ context.Context, q ports.FillQuery) ([]*domain.TradeFill, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*domain.TradeFill
	for _, f := range s.fills {
		if !q.From.IsZero() && f.Time.Before(q.From) {
			continue
		}
		if q.Status != "" && f.Status != q.Status {
			continue
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.SortDesc {
			return out[i].Time.After(out[j].Time)
		}
		return out[i].Time.Before(out[j].Time)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memFillStore) CountByStatus(_ context.Context, status domain.FillStatus) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n := 0
	for _, f := range s.fills {
		if f.Status == status {
			n++
		}
	}
	return n, nil
}

// memOverrideStore is an in-memory ports.OverrideStore.
type memOverrideStore struct {
	snapshot *domain.AuditReport
	err      error
}

func (s *memOverrideStore) Get(_ context.Context) (*domain.AuditReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

func (s *memOverrideStore) Upsert(_ context.Context, report *domain.AuditReport) error {
	if s.err != nil {
		return s.err
	}
	s.snapshot = report
	return nil
}

func newTestService(t *testing.T, fills *memFillStore, overrides *memOverrideStore, now time.Time) *Service {
	t.Helper()
	svc, err := NewService(Config{}, &mockLogger{}, fills, overrides)
	require.NoError(t, err)
	svc.now = func() time.Time { return now }
	return svc
}

func testFill(ts time.Time, strategy string, status domain.FillStatus, win *bool) *domain.TradeFill {
	return &domain.TradeFill{
		Time:      ts,
		Strategy:  strategy,
		Symbol:    "ETHUSDT",
		Direction: domain.Long,
		Size:      "1",
		Price:     2500,
		Status:    status,
		Win:       win,
	}
}

func TestGetAuditReport_ComputedPath(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC) // a Friday
	win, loss := boolPtr(true), boolPtr(false)

	f1 := testFill(now.Add(-2*time.Hour), "Drav", domain.StatusFilled, win)
	f1.PNL = floatPtr(125.5)
	f1.RMultiple = floatPtr(2.1)
	f2 := testFill(now.Add(-3*time.Hour), "Drav", domain.StatusFilled, loss)
	f2.PNL = floatPtr(-50)
	f2.RMultiple = floatPtr(-1.0)
	f3 := testFill(now.Add(-30*time.Minute), "Drav", domain.StatusRejected, nil)

	fills := &memFillStore{fills: []*domain.TradeFill{f1, f2, f3}}
	svc := newTestService(t, fills, &memOverrideStore{}, now)

	report, err := svc.GetAuditReport(context.Background())
	require.NoError(t, err)

	// Executions: all three fills, most recent first.
	require.Len(t, report.RecentExecutions, 3)
	assert.Equal(t, "14:30:00", report.RecentExecutions[0].Time)
	assert.Equal(t, "Rejected", report.RecentExecutions[0].Status)

	// Performance: two completed filled trades for Drav.
	require.Len(t, report.PerformanceByStrategy, 1)
	perf := report.PerformanceByStrategy[0]
	assert.Equal(t, "Drav", perf.Name)
	assert.Equal(t, 50.0, perf.WinRate)
	assert.Equal(t, 2, perf.Trades)
	assert.Equal(t, "+$75.50", perf.PNL)

	// Risk: 2 filled fills, each 1 * 2500 -> exposure 5000 -> leverage 0.5.
	require.Len(t, report.RiskMetrics, 2)
	assert.Equal(t, "1:0.5", report.RiskMetrics[1].Value)
	assert.Equal(t, "ok", report.RiskMetrics[1].Status)

	// Daily accuracy: both closed trades fell on the same weekday.
	assert.Equal(t, []domain.DailyAccuracy{{Day: "Fri", Accuracy: 50}}, report.DailyAccuracy)

	// Compliance: 2 filled, 1 rejected -> round(1/2*100) = 50%.
	assert.Equal(t, "50%", report.ComplianceLogs.RiskCompliance)
	assert.Equal(t, 1, report.ComplianceLogs.PolicyViolations)
	assert.Equal(t, "99.9%", report.ComplianceLogs.SystemUptime)
	assert.Equal(t, "12ms", report.ComplianceLogs.AvgLatency)

	assert.Empty(t, report.Anomalies)
	assert.NotNil(t, report.Anomalies)
}

func TestGetAuditReport_OverridePrecedence(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	fills := &memFillStore{fills: []*domain.TradeFill{
		testFill(now.Add(-time.Hour), "Drav", domain.StatusFilled, boolPtr(true)),
	}}

	// Override has executions but an explicitly empty strategy table. The
	// snapshot is authoritative for all five sections once either trigger
	// field is non-empty, so the empty performance list wins over the
	// computable one. Existing clients rely on this exact behavior.
	override := &domain.AuditReport{
		RecentExecutions: []domain.ExecutionRow{{Time: "08:00:00", Strategy: "Manual", Symbol: "BTCUSDT"}},
		RiskMetrics:      []domain.RiskMetricRow{{Label: "Custom", Value: "1:2", Status: "ok"}},
	}
	svc := newTestService(t, fills, &memOverrideStore{snapshot: override}, now)

	report, err := svc.GetAuditReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, override.RecentExecutions, report.RecentExecutions)
	assert.Empty(t, report.PerformanceByStrategy, "override's empty performance wins over the computed one")
	assert.NotNil(t, report.PerformanceByStrategy)
	assert.Equal(t, override.RiskMetrics, report.RiskMetrics)
	assert.Empty(t, report.Anomalies)

	// Daily accuracy is still computed fresh from the fill history.
	assert.Equal(t, []domain.DailyAccuracy{{Day: "Fri", Accuracy: 100}}, report.DailyAccuracy)
}

func TestGetAuditReport_OverrideCompliancePlaceholder(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	fills := &memFillStore{fills: []*domain.TradeFill{
		testFill(now.Add(-time.Hour), "Drav", domain.StatusRejected, nil),
	}}

	// A snapshot that carries executions but no compliance section is served
	// with the placeholder summary, never the zero-value struct.
	override := &domain.AuditReport{
		RecentExecutions: []domain.ExecutionRow{{Time: "08:00:00", Strategy: "Manual", Symbol: "BTCUSDT"}},
	}
	svc := newTestService(t, fills, &memOverrideStore{snapshot: override}, now)

	report, err := svc.GetAuditReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ComplianceLogs{
		RiskCompliance:   "100%",
		PolicyViolations: 0,
		SystemUptime:     "99.9%",
		AvgLatency:       "12ms",
	}, report.ComplianceLogs)

	// A snapshot that does carry the section keeps it verbatim.
	override.ComplianceLogs = domain.ComplianceLogs{
		RiskCompliance: "97%", PolicyViolations: 3, SystemUptime: "99.5%", AvgLatency: "20ms",
	}
	report, err = svc.GetAuditReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, override.ComplianceLogs, report.ComplianceLogs)
}

func TestGetAuditReport_OverrideAccuracyFallback(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	// No fills in the trailing week: the computed accuracy list is empty and
	// the snapshot's own list is served instead.
	override := &domain.AuditReport{
		RecentExecutions: []domain.ExecutionRow{{Time: "08:00:00"}},
		DailyAccuracy:    []domain.DailyAccuracy{{Day: "Mon", Accuracy: 80}},
	}
	svc := newTestService(t, &memFillStore{}, &memOverrideStore{snapshot: override}, now)

	report, err := svc.GetAuditReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, override.DailyAccuracy, report.DailyAccuracy)
}

func TestGetAuditReport_EmptyOverrideIgnored(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	fills := &memFillStore{fills: []*domain.TradeFill{
		testFill(now.Add(-time.Hour), "Drav", domain.StatusFilled, boolPtr(true)),
	}}
	// Snapshot exists but both trigger fields are empty: compute everything.
	override := &domain.AuditReport{
		RiskMetrics: []domain.RiskMetricRow{{Label: "Ignored", Value: "1:9", Status: "ok"}},
	}
	svc := newTestService(t, fills, &memOverrideStore{snapshot: override}, now)

	report, err := svc.GetAuditReport(context.Background())
	require.NoError(t, err)
	require.Len(t, report.RiskMetrics, 2)
	assert.Equal(t, "Max Leverage Allowed", report.RiskMetrics[0].Label)
	assert.Len(t, report.PerformanceByStrategy, 1)
}

func TestSaveAuditOverride_RoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	overrides := &memOverrideStore{}
	svc := newTestService(t, &memFillStore{}, overrides, now)

	payload := &domain.AuditReport{
		RecentExecutions: []domain.ExecutionRow{{Time: "10:00:00", Strategy: "Manual", Price: "2,641.50"}},
		ComplianceLogs:   domain.ComplianceLogs{RiskCompliance: "97%", PolicyViolations: 2, SystemUptime: "99.5%", AvgLatency: "20ms"},
	}
	saved, err := svc.SaveAuditOverride(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, payload, saved)

	report, err := svc.GetAuditReport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload.RecentExecutions, report.RecentExecutions)
	assert.Equal(t, payload.ComplianceLogs, report.ComplianceLogs)
}

func TestSaveAuditOverride_NilPayload(t *testing.T) {
	svc := newTestService(t, &memFillStore{}, &memOverrideStore{}, time.Now())
	_, err := svc.SaveAuditOverride(context.Background(), nil)
	assert.ErrorIs(t, err, ports.ErrInvalidRequest)
}

func TestGetAuditReport_StoreFailure(t *testing.T) {
	storeErr := errors.New("disk on fire")
	svc := newTestService(t, &memFillStore{err: storeErr}, &memOverrideStore{}, time.Now())

	_, err := svc.GetAuditReport(context.Background())
	assert.ErrorIs(t, err, storeErr, "a failed read fails the whole compute call")
}

func TestNewService_MissingDependencies(t *testing.T) {
	_, err := NewService(Config{}, nil, &memFillStore{}, &memOverrideStore{})
	assert.Error(t, err)
	_, err = NewService(Config{}, &mockLogger{}, nil, &memOverrideStore{})
	assert.Error(t, err)
	_, err = NewService(Config{}, &mockLogger{}, &memFillStore{}, nil)
	assert.Error(t, err)
}
