package audit

import (
	"math"
	"time"

	"auditdesk/internal/domain"
)

const anomalyTypeVolatilitySpike = "Volatility Spike"

const (
	severityMedium = "medium"
	severityHigh   = "high"
)

// minAnomalyObservations is the minimum price count per symbol before the
// dispersion estimate is considered meaningful.
const minAnomalyObservations = 3

// detectAnomalies computes per-symbol price dispersion over the recent fill
// window (all statuses) and flags symbols whose coefficient of variation
// exceeds threshold percent; above highMark the severity escalates to high.
// Nothing is deduplicated or persisted: every call recomputes from scratch.
func detectAnomalies(fills []*domain.TradeFill, now time.Time, threshold, highMark float64) []domain.AnomalyEvent {
	prices := make(map[string][]float64)
	var order []string
	for _, f := range fills {
		if _, seen := prices[f.Symbol]; !seen {
			order = append(order, f.Symbol)
		}
		prices[f.Symbol] = append(prices[f.Symbol], f.Price)
	}

	events := make([]domain.AnomalyEvent, 0)
	for _, symbol := range order {
		ps := prices[symbol]
		if len(ps) < minAnomalyObservations {
			continue
		}

		var sum float64
		for _, p := range ps {
			sum += p
		}
		mean := sum / float64(len(ps))
		if mean == 0 {
			continue
		}

		// Population variance over the observed window.
		var sumSq float64
		for _, p := range ps {
			d := p - mean
			sumSq += d * d
		}
		stddev := math.Sqrt(sumSq / float64(len(ps)))
		coefficient := stddev / mean * 100

		if coefficient <= threshold {
			continue
		}
		severity := severityMedium
		if coefficient > highMark {
			severity = severityHigh
		}
		events = append(events, domain.AnomalyEvent{
			Time:     formatClock(now),
			Type:     anomalyTypeVolatilitySpike,
			Asset:    symbol,
			Severity: severity,
		})
	}
	return events
}
