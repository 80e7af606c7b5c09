package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_FixedCatalog(t *testing.T) {
	tools := List()
	require.Len(t, tools, 4)

	assert.Equal(t, []Name{GetAlerts, GetAlertDetails, GetSecuritySummary, AnalyzeThreats}, Names())

	seen := map[Name]bool{}
	for _, tool := range tools {
		assert.False(t, seen[tool.Name], "duplicate tool %s", tool.Name)
		seen[tool.Name] = true
		assert.NotEmpty(t, tool.Description)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	tools := List()
	tools[0].Name = "tampered"
	assert.Equal(t, GetAlerts, List()[0].Name)
}

func TestLookup(t *testing.T) {
	spec, ok := Lookup("get_alert_details")
	require.True(t, ok)
	assert.True(t, spec.Params["identifier"].Required)

	_, ok = Lookup("delete_alerts")
	assert.False(t, ok)
}

func TestDefinitions_Schema(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 4)

	byName := map[string]Definition{}
	for _, d := range defs {
		assert.Equal(t, "function", d.Type)
		assert.Equal(t, "object", d.Function.Parameters.Type)
		byName[d.Function.Name] = d
	}

	alerts := byName["get_alerts"].Function.Parameters
	assert.Equal(t, []string{"low", "medium", "high", "critical"}, alerts.Properties["severity"].Enum)
	assert.Equal(t, "integer", alerts.Properties["limit"].Type)
	assert.Equal(t, DefaultLimit, alerts.Properties["limit"].Default)
	assert.Empty(t, alerts.Required)

	details := byName["get_alert_details"].Function.Parameters
	assert.Equal(t, []string{"identifier"}, details.Required)

	summary := byName["get_security_summary"].Function.Parameters
	assert.Empty(t, summary.Properties)
}

func TestJSON_MatchesDefinitions(t *testing.T) {
	var decoded []Definition
	require.NoError(t, json.Unmarshal([]byte(JSON()), &decoded))
	require.Len(t, decoded, 4)
	for i, name := range Names() {
		assert.Equal(t, string(name), decoded[i].Function.Name)
	}
	assert.True(t, strings.Contains(JSON(), `"analyze_threats"`))
}

func TestParse_GetAlerts(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    GetAlertsArgs
		wantErr string
	}{
		{
			name: "defaults applied",
			raw:  `{}`,
			want: GetAlertsArgs{Limit: 10},
		},
		{
			name: "all arguments",
			raw:  `{"severity":"critical","limit":25,"timeframe":"today"}`,
			want: GetAlertsArgs{Severity: "critical", Limit: 25, Timeframe: "today"},
		},
		{
			name: "enum is case-insensitive",
			raw:  `{"severity":"HIGH","timeframe":"Week"}`,
			want: GetAlertsArgs{Severity: "high", Limit: 10, Timeframe: "week"},
		},
		{
			name: "quoted integer accepted",
			raw:  `{"limit":"5"}`,
			want: GetAlertsArgs{Limit: 5},
		},
		{
			name: "large limit is not clamped",
			raw:  `{"limit":5000}`,
			want: GetAlertsArgs{Limit: 5000},
		},
		{
			name: "blank severity treated as absent",
			raw:  `{"severity":"  "}`,
			want: GetAlertsArgs{Limit: 10},
		},
		{
			name: "literal date timeframe kept",
			raw:  `{"timeframe":"2024-05-01"}`,
			want: GetAlertsArgs{Limit: 10, Timeframe: "2024-05-01"},
		},
		{
			name: "unknown parameter ignored",
			raw:  `{"verbose":true}`,
			want: GetAlertsArgs{Limit: 10},
		},
		{
			name: "null arguments",
			raw:  `null`,
			want: GetAlertsArgs{Limit: 10},
		},
		{
			name: "string-encoded object",
			raw:  `"{\"severity\":\"low\"}"`,
			want: GetAlertsArgs{Severity: "low", Limit: 10},
		},
		{
			name:    "severity outside enum",
			raw:     `{"severity":"severe"}`,
			wantErr: "must be one of",
		},
		{
			name:    "fractional limit",
			raw:     `{"limit":2.5}`,
			wantErr: "must be an integer",
		},
		{
			name:    "zero limit",
			raw:     `{"limit":0}`,
			wantErr: "must be a positive integer",
		},
		{
			name:    "severity wrong type",
			raw:     `{"severity":3}`,
			wantErr: "must be a string",
		},
		{
			name:    "not an object",
			raw:     `[1,2]`,
			wantErr: "must be a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := Parse("get_alerts", json.RawMessage(tt.raw))
			if tt.wantErr != "" {
				require.Error(t, err)
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, GetAlerts, verr.Tool)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, args)
		})
	}
}

func TestParse_RequiredIdentifier(t *testing.T) {
	_, err := Parse("get_alert_details", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"identifier"`)
	assert.Contains(t, err.Error(), "is required")

	_, err = Parse("get_alert_details", json.RawMessage(`{"identifier":"   "}`))
	require.Error(t, err)

	args, err := Parse("get_alert_details", json.RawMessage(`{"identifier":" 10.0.0.5 "}`))
	require.NoError(t, err)
	assert.Equal(t, GetAlertDetailsArgs{Identifier: "10.0.0.5"}, args)
}

func TestParse_OtherTools(t *testing.T) {
	args, err := Parse("get_security_summary", nil)
	require.NoError(t, err)
	assert.Equal(t, SecuritySummaryArgs{}, args)

	args, err = Parse("analyze_threats", json.RawMessage(`{"ip":"192.168.1.10","threat_type":"brute"}`))
	require.NoError(t, err)
	assert.Equal(t, AnalyzeThreatsArgs{IP: "192.168.1.10", ThreatType: "brute"}, args)
	assert.Equal(t, AnalyzeThreats, args.Tool())
}

func TestParse_UnsupportedTool(t *testing.T) {
	_, err := Parse("drop_table", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedTool))
}

func TestParse_EveryVariantMatchesItsTool(t *testing.T) {
	raw := map[Name]string{
		GetAlerts:          `{}`,
		GetAlertDetails:    `{"identifier":"x"}`,
		GetSecuritySummary: `{}`,
		AnalyzeThreats:     `{}`,
	}
	for _, name := range Names() {
		args, err := Parse(string(name), json.RawMessage(raw[name]))
		require.NoError(t, err, name)
		assert.Equal(t, name, args.Tool())
	}
}
