package audit

import (
	"testing"

	"auditdesk/internal/domain"
)

func TestBuildCompliance(t *testing.T) {
	tests := []struct {
		name        string
		totalFilled int
		rejected    int
		want        domain.ComplianceLogs
	}{
		{
			name:        "no trades defaults to full compliance",
			totalFilled: 0,
			rejected:    0,
			want:        domain.ComplianceLogs{RiskCompliance: "100%", PolicyViolations: 0, SystemUptime: "99.9%", AvgLatency: "12ms"},
		},
		{
			name:        "rejections reduce the ratio",
			totalFilled: 20,
			rejected:    3,
			want:        domain.ComplianceLogs{RiskCompliance: "85%", PolicyViolations: 3, SystemUptime: "99.9%", AvgLatency: "12ms"},
		},
		{
			name:        "rejections are counted even with zero filled trades",
			totalFilled: 0,
			rejected:    5,
			want:        domain.ComplianceLogs{RiskCompliance: "100%", PolicyViolations: 5, SystemUptime: "99.9%", AvgLatency: "12ms"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildCompliance(tt.totalFilled, tt.rejected, "99.9%", "12ms")
			if got != tt.want {
				t.Errorf("buildCompliance(%d, %d) = %+v, want %+v", tt.totalFilled, tt.rejected, got, tt.want)
			}
		})
	}
}
