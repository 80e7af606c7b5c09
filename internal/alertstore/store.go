// Package alertstore executes parameterized read queries against the
// time-series alert table and coerces the returned rows.
package alertstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrStoreUnavailable wraps every connection or query failure.
var ErrStoreUnavailable = errors.New("alert store unavailable")

// Query is a parameterized statement. Text uses @name placeholders which are
// bound from Args; caller-supplied values never appear in Text.
type Query struct {
	// Key names the query within a batch (e.g. "critical" in a summary).
	Key  string
	Text string
	Args pgx.NamedArgs
}

// Row is one result row keyed by column name.
type Row map[string]interface{}

// Querier runs a Query and returns its rows.
type Querier interface {
	Query(ctx context.Context, q Query) ([]Row, error)
}

// Columns selected whenever full alert records are read.
const AlertColumns = "name, ip, port, severity, threat_category, risk_score, reason, alert_time"
