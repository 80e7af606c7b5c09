package stats

import (
	"github.com/jackc/pgx/v5"

	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
)

// Query keys.
const (
	KeyCounts     = "stats_counts"
	KeyTrends     = "stats_trends"
	KeySeverity   = "stats_severity"
	KeyYesterday  = "stats_yesterday"
	KeyTopThreats = "stats_top_threats"
)

// Window sizes of the dashboard queries.
const (
	TrendMonths      = 6
	SeverityDays     = 30
	TopThreatDays    = 7
	TopThreatLimit   = 5
	AIProcessedLimit = 100
)

func countsQuery() alertstore.Query {
	return alertstore.Query{
		Key: KeyCounts,
		Text: `SELECT
	COUNT(*) FILTER (WHERE alert_time >= CURRENT_DATE) AS today,
	COUNT(*) FILTER (WHERE alert_time >= CURRENT_DATE AND LOWER(severity) = @critical) AS critical,
	COUNT(*) FILTER (WHERE alert_time >= CURRENT_DATE AND LOWER(severity) = @high) AS high,
	COUNT(*) AS total
FROM alerts`,
		Args: pgx.NamedArgs{"critical": "critical", "high": "high"},
	}
}

func trendsQuery() alertstore.Query {
	return alertstore.Query{
		Key: KeyTrends,
		Text: `SELECT to_char(date_trunc('month', alert_time), 'YYYY-MM') AS month, COUNT(*) AS count
FROM alerts
WHERE alert_time >= date_trunc('month', NOW()) - make_interval(months => @months_back)
GROUP BY 1
ORDER BY 1`,
		Args: pgx.NamedArgs{"months_back": TrendMonths - 1},
	}
}

func severityQuery() alertstore.Query {
	return alertstore.Query{
		Key: KeySeverity,
		Text: `SELECT COALESCE(NULLIF(LOWER(TRIM(severity)), ''), 'unknown') AS severity, COUNT(*) AS count
FROM alerts
WHERE alert_time >= NOW() - make_interval(days => @window_days)
GROUP BY 1
ORDER BY count DESC, severity`,
		Args: pgx.NamedArgs{"window_days": SeverityDays},
	}
}

func yesterdayQuery() alertstore.Query {
	return alertstore.Query{
		Key: KeyYesterday,
		Text: `SELECT COUNT(*) AS count
FROM alerts
WHERE alert_time >= CURRENT_DATE - INTERVAL '1 day' AND alert_time < CURRENT_DATE`,
		Args: pgx.NamedArgs{},
	}
}

func topThreatsQuery() alertstore.Query {
	return alertstore.Query{
		Key: KeyTopThreats,
		Text: `SELECT COALESCE(NULLIF(TRIM(threat_category), ''), 'uncategorized') AS category, COUNT(*) AS count
FROM alerts
WHERE alert_time >= NOW() - make_interval(days => @window_days)
GROUP BY 1
ORDER BY count DESC, category
LIMIT @limit`,
		Args: pgx.NamedArgs{"window_days": TopThreatDays, "limit": TopThreatLimit},
	}
}
