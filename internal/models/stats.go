package models

import "time"

// System health labels derived from the critical alert count.
const (
	HealthGood    = "Good"
	HealthWarning = "Warning"
)

// TrendPoint is one bucket of the alert trend series.
type TrendPoint struct {
	Date  string `json:"date" yaml:"date"`
	Count int64  `json:"count" yaml:"count"`
}

// SeverityBucket is one slice of the severity distribution.
type SeverityBucket struct {
	Severity string `json:"severity" yaml:"severity"`
	Count    int64  `json:"count" yaml:"count"`
}

// ThreatBucket counts alerts for a threat category.
type ThreatBucket struct {
	Category string `json:"category" yaml:"category"`
	Count    int64  `json:"count" yaml:"count"`
}

// DashboardStats is recomputed on every request and never stored.
type DashboardStats struct {
	AlertsToday    int64            `json:"alertsToday" yaml:"alertsToday"`
	CriticalAlerts int64            `json:"criticalAlerts" yaml:"criticalAlerts"`
	HighAlerts     int64            `json:"highAlerts" yaml:"highAlerts"`
	TotalAlerts    int64            `json:"totalAlerts" yaml:"totalAlerts"`
	AIProcessed    int64            `json:"aiProcessed" yaml:"aiProcessed"`
	AIAnalyzed     int64            `json:"aiAnalyzed" yaml:"aiAnalyzed"`
	SystemHealth   string           `json:"systemHealth" yaml:"systemHealth"`
	AlertsChange   float64          `json:"alertsChange" yaml:"alertsChange"`
	AlertTrends    []TrendPoint     `json:"alertTrends" yaml:"alertTrends"`
	SeverityDist   []SeverityBucket `json:"severityDist" yaml:"severityDist"`
	TopThreats     []ThreatBucket   `json:"topThreats" yaml:"topThreats"`
	GeneratedAt    time.Time        `json:"generatedAt" yaml:"generatedAt"`
}
