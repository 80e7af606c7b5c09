// Package risk derives coarse risk labels and analyst advisories from alerts.
package risk

import (
	"strings"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// Level is a coarse risk label.
type Level string

const (
	LevelCritical Level = "CRITICAL"
	LevelHigh     Level = "HIGH"
	LevelModerate Level = "MODERATE"
	LevelLow      Level = "LOW"
)

func (l Level) String() string { return string(l) }

// Advisories returned by Recommend.
const (
	AdviceCritical = "Immediate action required: isolate the affected host, block the source IP and escalate to incident response."
	AdviceHigh     = "High priority: investigate the source, review related activity and apply containment if the activity is confirmed malicious."
	AdviceMedium   = "Monitor closely: review the alert context and correlate with other events from the same source."
	AdviceLow      = "Low priority: log for trend analysis and review during routine triage."
	AdviceDefault  = "Review the alert details and follow standard triage procedures."
)

// Assess labels a set of alerts from its critical and high severity counts.
func Assess(alerts []models.Alert) Level {
	var critical, high int
	for _, a := range alerts {
		switch strings.ToLower(a.Severity) {
		case models.SeverityCritical:
			critical++
		case models.SeverityHigh:
			high++
		}
	}
	return AssessCounts(critical, high)
}

// AssessCounts applies the rule in order, first match wins:
// critical > 5, then critical > 0 or high > 10, then high > 0.
func AssessCounts(critical, high int) Level {
	switch {
	case critical > 5:
		return LevelCritical
	case critical > 0 || high > 10:
		return LevelHigh
	case high > 0:
		return LevelModerate
	default:
		return LevelLow
	}
}

// Recommend returns the advisory for an alert's severity.
func Recommend(alert models.Alert) string {
	switch strings.ToLower(strings.TrimSpace(alert.Severity)) {
	case models.SeverityCritical:
		return AdviceCritical
	case models.SeverityHigh:
		return AdviceHigh
	case models.SeverityMedium:
		return AdviceMedium
	case models.SeverityLow:
		return AdviceLow
	default:
		return AdviceDefault
	}
}

// Recommendations returns the distinct advisories for alerts in first-seen order.
func Recommendations(alerts []models.Alert) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, 4)
	for _, a := range alerts {
		advice := Recommend(a)
		if _, ok := seen[advice]; ok {
			continue
		}
		seen[advice] = struct{}{}
		out = append(out, advice)
	}
	return out
}
