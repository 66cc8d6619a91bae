package audit

import (
	"math"

	"auditdesk/internal/domain"
)

const (
	riskStatusOK      = "ok"
	riskStatusWarning = "warning"
)

// estimateRisk derives notional exposure and leverage from the recent fill
// window. Only fills with status Filled contribute; unparsable sizes count
// as zero exposure. Exactly two rows come back, both sharing the same
// status: "ok" while the estimated leverage stays within maxLeverage.
func estimateRisk(fills []*domain.TradeFill, baseCapital, maxLeverage float64) []domain.RiskMetricRow {
	var totalExposure float64
	for _, f := range fills {
		if f.Status != domain.StatusFilled {
			continue
		}
		totalExposure += parseSize(f.Size) * f.Price
	}

	currentLeverage := math.Round(totalExposure/baseCapital*10) / 10

	status := riskStatusOK
	if currentLeverage > maxLeverage {
		status = riskStatusWarning
	}

	return []domain.RiskMetricRow{
		{Label: "Max Leverage Allowed", Value: formatRatio(maxLeverage), Status: status},
		{Label: "Current Leverage", Value: formatRatio(currentLeverage), Status: status},
	}
}
