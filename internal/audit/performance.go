package audit

import (
	"auditdesk/internal/domain"
)

// strategyAccumulator holds running aggregation state for one strategy.
type strategyAccumulator struct {
	trades int
	wins   int
	sumR   float64
	countR int
	sumPNL float64
}

// aggregatePerformance groups completed filled trades by strategy and
// computes win rate, average R-multiple and total PNL per group. Only fills
// with status Filled and a recorded win/loss outcome contribute; strategies
// with no such fills are absent from the output. Groups appear in order of
// first occurrence.
func aggregatePerformance(fills []*domain.TradeFill) []domain.StrategyPerformance {
	accs := make(map[string]*strategyAccumulator)
	var order []string

	for _, f := range fills {
		if f.Status != domain.StatusFilled || f.Win == nil {
			continue
		}
		acc := accs[f.Strategy]
		if acc == nil {
			acc = &strategyAccumulator{}
			accs[f.Strategy] = acc
			order = append(order, f.Strategy)
		}
		acc.trades++
		if *f.Win {
			acc.wins++
		}
		if f.RMultiple != nil {
			acc.sumR += *f.RMultiple
			acc.countR++
		}
		if f.PNL != nil {
			acc.sumPNL += *f.PNL
		}
	}

	out := make([]domain.StrategyPerformance, 0, len(order))
	for _, name := range order {
		acc := accs[name]
		avgR := 0.0
		if acc.countR > 0 {
			avgR = round1(acc.sumR / float64(acc.countR))
		}
		out = append(out, domain.StrategyPerformance{
			Name:    name,
			WinRate: round1(float64(acc.wins) / float64(acc.trades) * 100),
			AvgR:    avgR,
			Trades:  acc.trades,
			PNL:     formatMoney(acc.sumPNL),
		})
	}
	return out
}
