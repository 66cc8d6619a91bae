package audit

import (
	"fmt"
	"math"

	"auditdesk/internal/domain"
)

// buildCompliance derives the compliance summary from fill/rejection counts
// over the full history. Every rejected fill counts as a policy violation.
// Uptime and latency are fixed platform figures, not telemetry.
func buildCompliance(totalFilled, rejected int, uptime, latency string) domain.ComplianceLogs {
	riskCompliance := "100%"
	if totalFilled > 0 {
		pct := math.Round(float64(totalFilled-rejected) / float64(totalFilled) * 100)
		riskCompliance = fmt.Sprintf("%d%%", int(pct))
	}
	return domain.ComplianceLogs{
		RiskCompliance:   riskCompliance,
		PolicyViolations: rejected,
		SystemUptime:     uptime,
		AvgLatency:       latency,
	}
}
