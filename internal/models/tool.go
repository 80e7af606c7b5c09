package models

import (
	"encoding/json"
	"fmt"
)

// ToolCall is an invocation proposed by the reasoning engine.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is the outcome of executing a ToolCall. A failed result never
// carries Data and always carries a Message.
type ToolResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Succeeded returns a successful result carrying data.
func Succeeded(data interface{}) ToolResult {
	return ToolResult{Success: true, Data: data}
}

// Failed returns a failed result with a formatted message.
func Failed(format string, args ...interface{}) ToolResult {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		msg = "tool execution failed"
	}
	return ToolResult{Success: false, Message: msg}
}

// AlertList is the payload of get_alerts.
type AlertList struct {
	Count  int     `json:"count"`
	Alerts []Alert `json:"alerts"`
}

// AlertDetail is the payload of get_alert_details.
type AlertDetail struct {
	Alert          Alert  `json:"alert"`
	Recommendation string `json:"recommendation"`
}

// SecuritySummary is the payload of get_security_summary.
type SecuritySummary struct {
	Period         string `json:"period"`
	TotalAlerts    int64  `json:"total_alerts"`
	CriticalAlerts int64  `json:"critical_alerts"`
	HighAlerts     int64  `json:"high_alerts"`
	UniqueSources  int64  `json:"unique_sources"`
	RiskLevel      string `json:"risk_level"`
}

// ThreatAnalysis is the payload of analyze_threats.
type ThreatAnalysis struct {
	TotalThreats    int            `json:"total_threats"`
	RiskLevel       string         `json:"risk_level"`
	Categories      map[string]int `json:"categories"`
	SourceIPs       []string       `json:"source_ips"`
	Recommendations []string       `json:"recommendations"`
	Alerts          []Alert        `json:"alerts"`
}
