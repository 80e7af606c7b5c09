package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// mockQuerier is a mock implementation of alertstore.Querier keyed by query
type mockQuerier struct {
	rows map[string][]alertstore.Row
	errs map[string]error
}

func (m *mockQuerier) Query(_ context.Context, q alertstore.Query) ([]alertstore.Row, error) {
	if err := m.errs[q.Key]; err != nil {
		return nil, err
	}
	return m.rows[q.Key], nil
}

func newTestPipeline(q alertstore.Querier) *Pipeline {
	p := NewPipeline(q, logging.Nop())
	p.now = func() time.Time { return time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC) }
	return p
}

func TestCompute_DashboardScenario(t *testing.T) {
	q := &mockQuerier{rows: map[string][]alertstore.Row{
		KeyCounts:    {{"today": "25", "critical": "6", "high": int64(9), "total": int64(120)}},
		KeyYesterday: {{"count": "20"}},
		KeyTrends: {
			{"month": "2024-01", "count": int64(30)},
			{"month": "2024-03", "count": "12"},
			{"month": "2024-05", "count": int64(25)},
		},
		KeySeverity: {
			{"severity": "critical", "count": int64(6)},
			{"severity": "high", "count": int64(9)},
			{"severity": "", "count": int64(2)},
			{"severity": "unknown", "count": int64(1)},
		},
		KeyTopThreats: {
			{"category": "Brute Force", "count": int64(11)},
			{"category": "Malware", "count": "4"},
		},
	}}

	stats := newTestPipeline(q).Compute(context.Background())

	assert.Equal(t, models.HealthWarning, stats.SystemHealth)
	assert.Equal(t, int64(100), stats.AIProcessed)
	assert.Equal(t, int64(25), stats.AIAnalyzed)
	assert.Equal(t, int64(25), stats.AlertsToday)
	assert.Equal(t, int64(6), stats.CriticalAlerts)
	assert.Equal(t, int64(9), stats.HighAlerts)
	assert.Equal(t, int64(120), stats.TotalAlerts)
	assert.Equal(t, 25.0, stats.AlertsChange)

	assert.Equal(t, []models.TrendPoint{
		{Date: "2023-12", Count: 0},
		{Date: "2024-01", Count: 30},
		{Date: "2024-02", Count: 0},
		{Date: "2024-03", Count: 12},
		{Date: "2024-04", Count: 0},
		{Date: "2024-05", Count: 25},
	}, stats.AlertTrends)

	assert.Equal(t, []models.SeverityBucket{
		{Severity: "critical", Count: 6},
		{Severity: "high", Count: 9},
		{Severity: "unknown", Count: 3},
	}, stats.SeverityDist)

	assert.Equal(t, []models.ThreatBucket{
		{Category: "Brute Force", Count: 11},
		{Category: "Malware", Count: 4},
	}, stats.TopThreats)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestCompute_YesterdayZero(t *testing.T) {
	q := &mockQuerier{rows: map[string][]alertstore.Row{
		KeyCounts:    {{"today": "8", "critical": "0", "total": "8"}},
		KeyYesterday: {{"count": "0"}},
	}}

	stats := newTestPipeline(q).Compute(context.Background())
	assert.Zero(t, stats.AlertsChange)
	assert.Equal(t, models.HealthGood, stats.SystemHealth)
	assert.Equal(t, int64(8), stats.AIProcessed)
}

func TestCompute_FailedQueriesContributeZero(t *testing.T) {
	boom := errors.New("store down")
	q := &mockQuerier{
		rows: map[string][]alertstore.Row{KeyYesterday: {{"count": int64(4)}}},
		errs: map[string]error{KeyCounts: boom, KeySeverity: boom, KeyTrends: boom, KeyTopThreats: boom},
	}

	stats := newTestPipeline(q).Compute(context.Background())
	assert.Zero(t, stats.AlertsToday)
	assert.Zero(t, stats.TotalAlerts)
	assert.Equal(t, -100.0, stats.AlertsChange)
	assert.Equal(t, models.HealthGood, stats.SystemHealth)
	assert.Len(t, stats.AlertTrends, TrendMonths)
	assert.Empty(t, stats.SeverityDist)
	assert.Empty(t, stats.TopThreats)
}

func TestHealth(t *testing.T) {
	assert.Equal(t, models.HealthGood, Health(0))
	assert.Equal(t, models.HealthGood, Health(5))
	assert.Equal(t, models.HealthWarning, Health(6))
}

func TestChange(t *testing.T) {
	tests := []struct {
		today, yesterday int64
		want             float64
	}{
		{25, 20, 25},
		{10, 30, -66.7},
		{1, 3, -66.7},
		{2, 3, -33.3},
		{5, 0, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Change(tt.today, tt.yesterday), 1e-9, "today=%d yesterday=%d", tt.today, tt.yesterday)
	}
}

func TestQueriesAreParameterized(t *testing.T) {
	for _, q := range []alertstore.Query{countsQuery(), trendsQuery(), severityQuery(), yesterdayQuery(), topThreatsQuery()} {
		require.NotEmpty(t, q.Key)
		assert.NotNil(t, q.Args)
	}
	assert.Equal(t, TrendMonths-1, trendsQuery().Args["months_back"])
	assert.Equal(t, TopThreatLimit, topThreatsQuery().Args["limit"])
}
