// Package models defines the data shapes exchanged between assist components.
package models

import (
	"strings"
	"time"
)

// Alert severities as stored in the alert store.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
	SeverityUnknown  = "unknown"
)

// Severities lists the valid severities in ascending order.
var Severities = []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Alert is a single security event read from the alert store. Alerts are
// never modified by this service.
type Alert struct {
	Name           string    `json:"name"`
	IP             string    `json:"ip"`
	Port           int       `json:"port"`
	Severity       string    `json:"severity"`
	ThreatCategory string    `json:"threat_category"`
	RiskScore      float64   `json:"risk_score"`
	Reason         string    `json:"reason"`
	Timestamp      time.Time `json:"timestamp"`
}

// NormalizeSeverity lowercases s and maps blanks to SeverityUnknown.
func NormalizeSeverity(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SeverityUnknown
	}
	return s
}

// IsValidSeverity reports whether s is one of the four known severities.
func IsValidSeverity(s string) bool {
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}
