package executor

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
	"github.com/telhawk-systems/telhawk-assist/internal/querybuilder"
	"github.com/telhawk-systems/telhawk-assist/internal/risk"
)

// SummaryPeriod labels the window covered by get_security_summary.
const SummaryPeriod = "last_24_hours"

// uncategorized labels alerts without a threat category.
const uncategorized = "uncategorized"

func (e *Executor) queryOne(ctx context.Context, args catalog.Args) ([]alertstore.Row, error) {
	queries, err := querybuilder.Build(args)
	if err != nil {
		return nil, err
	}
	if len(queries) != 1 {
		return nil, fmt.Errorf("expected one query for %s, got %d", args.Tool(), len(queries))
	}
	return e.store.Query(ctx, queries[0])
}

func (e *Executor) getAlerts(ctx context.Context, args catalog.Args) (interface{}, error) {
	rows, err := e.queryOne(ctx, args)
	if err != nil {
		return nil, err
	}
	alerts := alertstore.ToAlerts(rows)
	return models.AlertList{Count: len(alerts), Alerts: alerts}, nil
}

func (e *Executor) getAlertDetails(ctx context.Context, args catalog.Args) (interface{}, error) {
	rows, err := e.queryOne(ctx, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &notFoundError{identifier: args.(catalog.GetAlertDetailsArgs).Identifier}
	}

	alert := rows[0].ToAlert()
	return models.AlertDetail{Alert: alert, Recommendation: risk.Recommend(alert)}, nil
}

// securitySummary runs the four summary counts concurrently. A failed or
// empty sub-query counts as 0.
func (e *Executor) securitySummary(ctx context.Context, args catalog.Args) (interface{}, error) {
	queries, err := querybuilder.Build(args)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		counts = make(map[string]int64, len(queries))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		g.Go(func() error {
			rows, err := e.store.Query(gctx, q)
			if err != nil {
				e.logger.WarnContext(ctx, "summary sub-query failed",
					logging.QueryKey(q.Key),
					logging.Error(err),
				)
				return nil
			}
			n := alertstore.First(rows).Int64("count")
			mu.Lock()
			counts[q.Key] = n
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	critical := counts[querybuilder.KeyCritical]
	high := counts[querybuilder.KeyHigh]
	return models.SecuritySummary{
		Period:         SummaryPeriod,
		TotalAlerts:    counts[querybuilder.KeyTotal],
		CriticalAlerts: critical,
		HighAlerts:     high,
		UniqueSources:  counts[querybuilder.KeyUniqueSources],
		RiskLevel:      risk.AssessCounts(int(critical), int(high)).String(),
	}, nil
}

func (e *Executor) analyzeThreats(ctx context.Context, args catalog.Args) (interface{}, error) {
	rows, err := e.queryOne(ctx, args)
	if err != nil {
		return nil, err
	}
	alerts := alertstore.ToAlerts(rows)

	categories := make(map[string]int)
	sources := make([]string, 0, len(alerts))
	seen := make(map[string]bool)
	for _, a := range alerts {
		category := a.ThreatCategory
		if category == "" {
			category = uncategorized
		}
		categories[category]++

		if a.IP != "" && !seen[a.IP] {
			seen[a.IP] = true
			sources = append(sources, a.IP)
		}
	}

	return models.ThreatAnalysis{
		TotalThreats:    len(alerts),
		RiskLevel:       risk.Assess(alerts).String(),
		Categories:      categories,
		SourceIPs:       sources,
		Recommendations: risk.Recommendations(alerts),
		Alerts:          alerts,
	}, nil
}
