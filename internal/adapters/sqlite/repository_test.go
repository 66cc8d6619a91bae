package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"auditdesk/internal/domain"
	"auditdesk/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "auditdesk-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func makeFill(ts time.Time, strategy, symbol string, status domain.FillStatus) *domain.TradeFill {
	return &domain.TradeFill{
		Time:      ts,
		Strategy:  strategy,
		Symbol:    symbol,
		Direction: domain.Long,
		Size:      "1.5",
		Price:     2641.5,
		Status:    status,
	}
}

func TestRepository_InsertAndQueryFills(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	closed := makeFill(base, "Drav", "ETHUSDT", domain.StatusFilled)
	closed.Win = boolPtr(true)
	closed.PNL = floatPtr(125.5)
	closed.RMultiple = floatPtr(2.1)

	open := makeFill(base.Add(time.Hour), "Momentum", "BTCUSDT", domain.StatusPending)
	rejected := makeFill(base.Add(2*time.Hour), "Drav", "BTCUSDT", domain.StatusRejected)

	for _, f := range []*domain.TradeFill{closed, open, rejected} {
		id, err := repo.InsertFill(ctx, f)
		require.NoError(t, err)
		assert.NotZero(t, id)
	}

	t.Run("query all sorted descending", func(t *testing.T) {
		fills, err := repo.Query(ctx, ports.FillQuery{SortDesc: true})
		require.NoError(t, err)
		require.Len(t, fills, 3)
		assert.Equal(t, "BTCUSDT", fills[0].Symbol)
		assert.Equal(t, domain.StatusRejected, fills[0].Status)
		assert.True(t, fills[0].Time.After(fills[2].Time))
	})

	t.Run("optional fields survive the round trip", func(t *testing.T) {
		fills, err := repo.Query(ctx, ports.FillQuery{Status: domain.StatusFilled})
		require.NoError(t, err)
		require.Len(t, fills, 1)
		f := fills[0]
		require.NotNil(t, f.Win)
		assert.True(t, *f.Win)
		require.NotNil(t, f.PNL)
		assert.Equal(t, 125.5, *f.PNL)
		require.NotNil(t, f.RMultiple)
		assert.Equal(t, 2.1, *f.RMultiple)
		assert.Nil(t, f.EntryTime)
	})

	t.Run("time filter", func(t *testing.T) {
		fills, err := repo.Query(ctx, ports.FillQuery{From: base.Add(30 * time.Minute)})
		require.NoError(t, err)
		assert.Len(t, fills, 2)
	})

	t.Run("limit", func(t *testing.T) {
		fills, err := repo.Query(ctx, ports.FillQuery{Limit: 2, SortDesc: true})
		require.NoError(t, err)
		assert.Len(t, fills, 2)
	})

	t.Run("count by status", func(t *testing.T) {
		n, err := repo.CountByStatus(ctx, domain.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		n, err = repo.CountByStatus(ctx, domain.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestRepository_OverrideSnapshot(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("absent snapshot reads as nil", func(t *testing.T) {
		snapshot, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})

	report := &domain.AuditReport{
		RecentExecutions: []domain.ExecutionRow{{Time: "10:00:00", Strategy: "Manual", Symbol: "BTCUSDT", Price: "2,641.50"}},
		ComplianceLogs:   domain.ComplianceLogs{RiskCompliance: "97%", PolicyViolations: 2, SystemUptime: "99.9%", AvgLatency: "12ms"},
	}

	t.Run("upsert and get round trip", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, report))
		snapshot, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Equal(t, report.RecentExecutions, snapshot.RecentExecutions)
		assert.Equal(t, report.ComplianceLogs, snapshot.ComplianceLogs)
	})

	t.Run("upsert replaces wholesale", func(t *testing.T) {
		replacement := &domain.AuditReport{
			DailyAccuracy: []domain.DailyAccuracy{{Day: "Mon", Accuracy: 80}},
		}
		require.NoError(t, repo.Upsert(ctx, replacement))
		snapshot, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Empty(t, snapshot.RecentExecutions, "previous snapshot fields must not survive a replace")
		assert.Equal(t, replacement.DailyAccuracy, snapshot.DailyAccuracy)
	})
}

func TestRepository_MalformedOverride(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("field type mismatch keeps well-formed fields", func(t *testing.T) {
		// The operator wrote a string where a list belongs.
		doc := `{"recentExecutions": "oops", "dailyAccuracy": [{"day": "Mon", "accuracy": 80}]}`
		_, err := repo.db.ExecContext(ctx,
			`INSERT INTO audit_override (key, document, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET document = excluded.document`, overrideKey, doc, time.Now())
		require.NoError(t, err)

		snapshot, err := repo.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, snapshot)
		assert.Empty(t, snapshot.RecentExecutions)
		assert.Equal(t, []domain.DailyAccuracy{{Day: "Mon", Accuracy: 80}}, snapshot.DailyAccuracy)
	})

	t.Run("unreadable document reads as absent", func(t *testing.T) {
		_, err := repo.db.ExecContext(ctx,
			`UPDATE audit_override SET document = ? WHERE key = ?`, "{not json", overrideKey)
		require.NoError(t, err)

		snapshot, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, snapshot)
	})
}

func TestRepository_ClosedStoreErrors(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	ctx := context.Background()

	// Close the connection so every store operation fails; the chains must
	// all match the umbrella store sentinel.
	require.NoError(t, repo.Close())
	cleanup()

	_, err := repo.Query(ctx, ports.FillQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrQueryFailed))
	assert.True(t, errors.Is(err, ports.ErrStoreUnavailable))

	err = repo.Upsert(ctx, &domain.AuditReport{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrUpdateFailed))
	assert.True(t, errors.Is(err, ports.ErrStoreUnavailable))
}
