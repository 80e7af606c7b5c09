// Package querybuilder turns validated tool arguments into parameterized
// alert store queries. Caller-supplied values are only ever bound as named
// arguments; the query text is assembled from fixed fragments.
package querybuilder

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
)

// ThreatAnalysisLimit caps the number of alerts considered by analyze_threats.
const ThreatAnalysisLimit = 20

// Summary query keys.
const (
	KeyTotal         = "total"
	KeyCritical      = "critical"
	KeyHigh          = "high"
	KeyUniqueSources = "unique_sources"
)

// Query keys for the single-query tools.
const (
	KeyAlerts       = "alerts"
	KeyAlertDetails = "alert_details"
	KeyThreats      = "threats"
)

// summaryWindow is the relative window of every summary query.
const summaryWindow = "alert_time >= NOW() - INTERVAL '24 hours'"

var timeframeDays = map[string]int{
	catalog.TimeframeToday: 1,
	catalog.TimeframeWeek:  7,
	catalog.TimeframeMonth: 30,
}

// WindowDays returns the relative window in days for a timeframe keyword.
// Literal dates and unknown values report false and add no predicate.
func WindowDays(timeframe string) (int, bool) {
	days, ok := timeframeDays[strings.ToLower(strings.TrimSpace(timeframe))]
	return days, ok
}

// Build returns the queries needed to answer a tool call.
func Build(args catalog.Args) ([]alertstore.Query, error) {
	switch a := args.(type) {
	case catalog.GetAlertsArgs:
		return []alertstore.Query{buildGetAlerts(a)}, nil
	case catalog.GetAlertDetailsArgs:
		return []alertstore.Query{buildAlertDetails(a)}, nil
	case catalog.SecuritySummaryArgs:
		return buildSummary(), nil
	case catalog.AnalyzeThreatsArgs:
		return []alertstore.Query{buildAnalyzeThreats(a)}, nil
	case nil:
		return nil, fmt.Errorf("%w: no arguments", catalog.ErrUnsupportedTool)
	default:
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnsupportedTool, args.Tool())
	}
}

func buildGetAlerts(a catalog.GetAlertsArgs) alertstore.Query {
	where := newWhere()
	if a.Severity != "" {
		where.add("LOWER(severity) = @severity", "severity", strings.ToLower(a.Severity))
	}
	if days, ok := WindowDays(a.Timeframe); ok {
		where.add("alert_time >= NOW() - make_interval(days => @window_days)", "window_days", days)
	}

	limit := a.Limit
	if limit <= 0 {
		limit = catalog.DefaultLimit
	}
	where.args["limit"] = limit

	return alertstore.Query{
		Key:  KeyAlerts,
		Text: "SELECT " + alertstore.AlertColumns + " FROM alerts" + where.clause() + " ORDER BY alert_time DESC LIMIT @limit",
		Args: where.args,
	}
}

func buildAlertDetails(a catalog.GetAlertDetailsArgs) alertstore.Query {
	where := newWhere()
	where.args["identifier"] = a.Identifier
	where.add(`(name ILIKE @identifier_pattern ESCAPE '\' OR ip ILIKE @identifier_pattern ESCAPE '\')`,
		"identifier_pattern", Contains(a.Identifier))

	return alertstore.Query{
		Key: KeyAlertDetails,
		Text: "SELECT " + alertstore.AlertColumns + " FROM alerts" + where.clause() +
			" ORDER BY (name = @identifier OR ip = @identifier) DESC, alert_time DESC LIMIT 1",
		Args: where.args,
	}
}

func buildSummary() []alertstore.Query {
	return []alertstore.Query{
		{
			Key:  KeyTotal,
			Text: "SELECT COUNT(*) AS count FROM alerts WHERE " + summaryWindow,
			Args: pgx.NamedArgs{},
		},
		{
			Key:  KeyCritical,
			Text: "SELECT COUNT(*) AS count FROM alerts WHERE " + summaryWindow + " AND LOWER(severity) = @severity",
			Args: pgx.NamedArgs{"severity": "critical"},
		},
		{
			Key:  KeyHigh,
			Text: "SELECT COUNT(*) AS count FROM alerts WHERE " + summaryWindow + " AND LOWER(severity) = @severity",
			Args: pgx.NamedArgs{"severity": "high"},
		},
		{
			Key:  KeyUniqueSources,
			Text: "SELECT COUNT(DISTINCT ip) AS count FROM alerts WHERE " + summaryWindow,
			Args: pgx.NamedArgs{},
		},
	}
}

func buildAnalyzeThreats(a catalog.AnalyzeThreatsArgs) alertstore.Query {
	where := newWhere()
	if a.IP != "" {
		where.add("ip = @ip", "ip", a.IP)
	}
	if a.ThreatType != "" {
		where.add(`threat_category ILIKE @threat_pattern ESCAPE '\'`, "threat_pattern", Contains(a.ThreatType))
	}
	where.args["limit"] = ThreatAnalysisLimit

	return alertstore.Query{
		Key:  KeyThreats,
		Text: "SELECT " + alertstore.AlertColumns + " FROM alerts" + where.clause() + " ORDER BY risk_score DESC NULLS LAST, alert_time DESC LIMIT @limit",
		Args: where.args,
	}
}

// where accumulates predicates and their named arguments.
type where struct {
	predicates []string
	args       pgx.NamedArgs
}

func newWhere() *where {
	return &where{args: pgx.NamedArgs{}}
}

func (w *where) add(predicate, name string, value interface{}) {
	w.predicates = append(w.predicates, predicate)
	w.args[name] = value
}

func (w *where) clause() string {
	if len(w.predicates) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.predicates, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE metacharacters so s matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Contains returns a LIKE pattern matching any value containing s.
func Contains(s string) string {
	return "%" + EscapeLike(s) + "%"
}
