package domain

// ExecutionRow is a display-ready rendering of a recent fill.
type ExecutionRow struct {
	Time      string `json:"time"` // 24h HH:MM:SS
	Strategy  string `json:"strategy"`
	Symbol    string `json:"symbol"`
	Direction string `json:"direction"`
	Size      string `json:"size"`
	Price     string `json:"price"` // grouped, 2 decimals
	Status    string `json:"status"`
}

// StrategyPerformance aggregates completed filled trades for one strategy.
type StrategyPerformance struct {
	Name    string  `json:"name"`
	WinRate float64 `json:"winRate"` // percentage, 1 decimal
	AvgR    float64 `json:"avgR"`    // mean R-multiple, 1 decimal
	Trades  int     `json:"trades"`
	PNL     string  `json:"pnl"` // signed, grouped, 2 decimals, e.g. "+$425.50"
}

// RiskMetricRow is a single labelled risk figure.
type RiskMetricRow struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status string `json:"status"` // "ok" or "warning"
}

// AnomalyEvent flags a detected irregularity in recent fills.
type AnomalyEvent struct {
	Time     string `json:"time"` // detection time, HH:MM:SS
	Type     string `json:"type"`
	Asset    string `json:"asset"`
	Severity string `json:"severity"` // "medium" or "high"
}

// DailyAccuracy is the win ratio for one weekday of the trailing week.
type DailyAccuracy struct {
	Day      string `json:"day"`      // Sun..Sat
	Accuracy int    `json:"accuracy"` // whole percent
}

// ComplianceLogs summarises fill/rejection counts plus fixed platform stats.
type ComplianceLogs struct {
	RiskCompliance   string `json:"riskCompliance"`
	PolicyViolations int    `json:"policyViolations"`
	SystemUptime     string `json:"systemUptime"`
	AvgLatency       string `json:"avgLatency"`
}

// AuditReport is the audit-room report. It is also the shape of the operator
// override snapshot: any field may be empty there.
type AuditReport struct {
	RecentExecutions      []ExecutionRow        `json:"recentExecutions"`
	PerformanceByStrategy []StrategyPerformance `json:"performanceByStrategy"`
	RiskMetrics           []RiskMetricRow       `json:"riskMetrics"`
	Anomalies             []AnomalyEvent        `json:"anomalies"`
	DailyAccuracy         []DailyAccuracy       `json:"dailyAccuracy"`
	ComplianceLogs        ComplianceLogs        `json:"complianceLogs"`
}

// HasOverrideData reports whether an override snapshot carries enough data to
// take precedence over freshly computed values. The check keys off
// executions-or-performance only; the remaining fields follow along.
func (r *AuditReport) HasOverrideData() bool {
	return len(r.RecentExecutions) > 0 || len(r.PerformanceByStrategy) > 0
}
