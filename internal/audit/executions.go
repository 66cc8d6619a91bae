package audit

import (
	"sort"

	"auditdesk/internal/domain"
)

// formatExecutions renders the most recent fills into display rows,
// most-recent-first. Descending time order is enforced here rather than
// assumed from store order.
func formatExecutions(fills []*domain.TradeFill, limit int) []domain.ExecutionRow {
	sorted := make([]*domain.TradeFill, len(fills))
	copy(sorted, fills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.After(sorted[j].Time)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	rows := make([]domain.ExecutionRow, 0, len(sorted))
	for _, f := range sorted {
		rows = append(rows, domain.ExecutionRow{
			Time:      formatClock(f.Time),
			Strategy:  f.Strategy,
			Symbol:    f.Symbol,
			Direction: string(f.Direction),
			Size:      f.Size,
			Price:     formatPrice(f.Price),
			Status:    string(f.Status),
		})
	}
	return rows
}
