// Package stats computes dashboard statistics from the alert store.
package stats

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
	"github.com/telhawk-systems/telhawk-assist/internal/metrics"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// criticalWarningThreshold is the critical count above which health degrades.
const criticalWarningThreshold = 5

// Pipeline runs the dashboard queries.
type Pipeline struct {
	store  alertstore.Querier
	logger *logging.Logger
	now    func() time.Time
}

// NewPipeline creates a Pipeline on store.
func NewPipeline(store alertstore.Querier, logger *logging.Logger) *Pipeline {
	return &Pipeline{store: store, logger: logging.OrDefault(logger), now: time.Now}
}

// Compute runs all dashboard queries concurrently. A failed query is logged
// and contributes zero values.
func (p *Pipeline) Compute(ctx context.Context) models.DashboardStats {
	start := time.Now()
	defer func() { metrics.StatsComputeDuration.Observe(time.Since(start).Seconds()) }()

	var counts, trends, severity, yesterday, threats []alertstore.Row

	g, gctx := errgroup.WithContext(ctx)
	p.run(gctx, g, countsQuery(), &counts)
	p.run(gctx, g, trendsQuery(), &trends)
	p.run(gctx, g, severityQuery(), &severity)
	p.run(gctx, g, yesterdayQuery(), &yesterday)
	p.run(gctx, g, topThreatsQuery(), &threats)
	_ = g.Wait()

	c := alertstore.First(counts)
	today := c.Int64("today")
	critical := c.Int64("critical")
	total := c.Int64("total")

	return models.DashboardStats{
		AlertsToday:    today,
		CriticalAlerts: critical,
		HighAlerts:     c.Int64("high"),
		TotalAlerts:    total,
		AIProcessed:    min(total, AIProcessedLimit),
		AIAnalyzed:     today,
		SystemHealth:   Health(critical),
		AlertsChange:   Change(today, alertstore.First(yesterday).Int64("count")),
		AlertTrends:    monthlyTrend(trends, p.now()),
		SeverityDist:   severityDistribution(severity),
		TopThreats:     topThreats(threats),
		GeneratedAt:    p.now().UTC(),
	}
}

// run schedules q and stores its rows in dst. Every goroutine writes only
// its own destination.
func (p *Pipeline) run(ctx context.Context, g *errgroup.Group, q alertstore.Query, dst *[]alertstore.Row) {
	g.Go(func() error {
		rows, err := p.store.Query(ctx, q)
		if err != nil {
			metrics.StatsQueryErrors.WithLabelValues(q.Key).Inc()
			p.logger.WarnContext(ctx, "dashboard query failed", logging.QueryKey(q.Key), logging.Error(err))
			return nil
		}
		*dst = rows
		return nil
	})
}

// Health labels the system from the critical alert count.
func Health(critical int64) string {
	if critical > criticalWarningThreshold {
		return models.HealthWarning
	}
	return models.HealthGood
}

// Change returns the percent change from yesterday to today rounded to one
// decimal. It is 0 when yesterday is 0.
func Change(today, yesterday int64) float64 {
	if yesterday <= 0 {
		return 0
	}
	pct := float64(today-yesterday) / float64(yesterday) * 100
	return math.Round(pct*10) / 10
}

// monthlyTrend returns one point per month for the trailing TrendMonths
// months, oldest first, with missing months at 0.
func monthlyTrend(rows []alertstore.Row, now time.Time) []models.TrendPoint {
	byMonth := make(map[string]int64, len(rows))
	for _, row := range rows {
		byMonth[row.String("month")] += row.Int64("count")
	}

	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	points := make([]models.TrendPoint, 0, TrendMonths)
	for i := TrendMonths - 1; i >= 0; i-- {
		month := first.AddDate(0, -i, 0).Format("2006-01")
		points = append(points, models.TrendPoint{Date: month, Count: byMonth[month]})
	}
	return points
}

// severityDistribution merges buckets after normalizing their labels,
// keeping the order in which labels first appear.
func severityDistribution(rows []alertstore.Row) []models.SeverityBucket {
	index := make(map[string]int, len(rows))
	out := make([]models.SeverityBucket, 0, len(rows))
	for _, row := range rows {
		label := models.NormalizeSeverity(row.String("severity"))
		if i, ok := index[label]; ok {
			out[i].Count += row.Int64("count")
			continue
		}
		index[label] = len(out)
		out = append(out, models.SeverityBucket{Severity: label, Count: row.Int64("count")})
	}
	return out
}

func topThreats(rows []alertstore.Row) []models.ThreatBucket {
	out := make([]models.ThreatBucket, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ThreatBucket{Category: row.String("category"), Count: row.Int64("count")})
	}
	return out
}
