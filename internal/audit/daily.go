package audit

import (
	"math"
	"time"

	"auditdesk/internal/domain"
)

// weekdayNames are the canonical weekday abbreviations, indexed by time.Weekday.
var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// dailyAccuracy groups closed trades by weekday and computes the win ratio
// per weekday. The caller supplies fills already restricted to the trailing
// window; any status counts, but only closed trades (Win present) contribute.
// Output is ordered Sun..Sat and contains only weekdays with at least one
// trade; it is never padded to seven entries.
func dailyAccuracy(fills []*domain.TradeFill) []domain.DailyAccuracy {
	type bucket struct {
		wins  int
		total int
	}
	buckets := make(map[time.Weekday]*bucket)
	for _, f := range fills {
		if f.Win == nil {
			continue
		}
		b := buckets[f.Time.Weekday()]
		if b == nil {
			b = &bucket{}
			buckets[f.Time.Weekday()] = b
		}
		b.total++
		if *f.Win {
			b.wins++
		}
	}

	// Canonical weekday order regardless of insertion order.
	out := make([]domain.DailyAccuracy, 0, len(buckets))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		b, ok := buckets[wd]
		if !ok {
			continue
		}
		out = append(out, domain.DailyAccuracy{
			Day:      weekdayNames[wd],
			Accuracy: int(math.Round(float64(b.wins) / float64(b.total) * 100)),
		})
	}
	return out
}
