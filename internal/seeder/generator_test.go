package seeder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

func TestGenerate(t *testing.T) {
	spread := 48 * time.Hour
	before := time.Now()
	alerts := Generate(200, spread)
	assert.Len(t, alerts, 200)

	for _, a := range alerts {
		assert.NotEmpty(t, a.Name)
		assert.NotEmpty(t, a.IP)
		assert.NotEmpty(t, a.ThreatCategory)
		assert.True(t, models.IsValidSeverity(a.Severity), "severity %q", a.Severity)

		r := riskRanges[a.Severity]
		assert.GreaterOrEqual(t, a.RiskScore, r[0])
		assert.LessOrEqual(t, a.RiskScore, r[1])

		assert.False(t, a.Timestamp.Before(before.Add(-spread)), "timestamp too old")
		assert.False(t, a.Timestamp.After(time.Now()), "timestamp in the future")
	}
}

func TestAlertTime_NoSpread(t *testing.T) {
	now := time.Now()
	assert.Equal(t, now, alertTime(now, 3, 10, 0))
}

func TestPickSeverity(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Equal(t, models.SeverityCritical, pickSeverity([4]int{0, 0, 0, 1}))
	}
	assert.Equal(t, models.SeverityLow, pickSeverity([4]int{}))
}
