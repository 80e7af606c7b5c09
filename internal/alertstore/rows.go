package alertstore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// Int64 coerces the column to an integer. Numeric strings, floats and
// pgtype.Numeric are accepted; missing or unparseable values yield 0.
func (r Row) Int64(key string) int64 {
	f := r.Float64(key)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(math.Round(f))
}

// Float64 coerces the column to a float; missing or unparseable values yield 0.
func (r Row) Float64(key string) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}

	switch n := v.(type) {
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case int16:
		return float64(n)
	case int:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	case []byte:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return 0
		}
		return f.Float64
	}
	return 0
}

// String returns the column as a string; missing values yield "".
func (r Row) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// Time returns the column as a time; strings in RFC 3339 or
// "2006-01-02 15:04:05" form are parsed. Missing values yield the zero time.
func (r Row) Time(key string) time.Time {
	v, ok := r[key]
	if !ok || v == nil {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case pgtype.Timestamptz:
		return t.Time
	case pgtype.Timestamp:
		return t.Time
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

// ToAlert maps a row selected with AlertColumns to an Alert.
func (r Row) ToAlert() models.Alert {
	return models.Alert{
		Name:           r.String("name"),
		IP:             r.String("ip"),
		Port:           int(r.Int64("port")),
		Severity:       strings.ToLower(r.String("severity")),
		ThreatCategory: r.String("threat_category"),
		RiskScore:      r.Float64("risk_score"),
		Reason:         r.String("reason"),
		Timestamp:      r.Time("alert_time"),
	}
}

// ToAlerts maps every row to an Alert.
func ToAlerts(rows []Row) []models.Alert {
	alerts := make([]models.Alert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, row.ToAlert())
	}
	return alerts
}

// First returns the first row, or an empty row when rows is empty.
func First(rows []Row) Row {
	if len(rows) == 0 {
		return Row{}
	}
	return rows[0]
}
