package executor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/alertstore"
	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
	"github.com/telhawk-systems/telhawk-assist/internal/querybuilder"
	"github.com/telhawk-systems/telhawk-assist/internal/risk"
)

// mockQuerier is a mock implementation of alertstore.Querier
type mockQuerier struct {
	mu        sync.Mutex
	queries   []alertstore.Query
	QueryFunc func(ctx context.Context, q alertstore.Query) ([]alertstore.Row, error)
}

func (m *mockQuerier) Query(ctx context.Context, q alertstore.Query) ([]alertstore.Row, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockQuerier) recorded() []alertstore.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]alertstore.Query(nil), m.queries...)
}

func alertRow(name, ip, severity, category string, score float64) alertstore.Row {
	return alertstore.Row{
		"name":            name,
		"ip":              ip,
		"port":            int32(443),
		"severity":        severity,
		"threat_category": category,
		"risk_score":      score,
		"reason":          "test",
		"alert_time":      time.Now(),
	}
}

func newTestExecutor(t *testing.T, store *mockQuerier) *Executor {
	t.Helper()
	e, err := New(store, logging.Nop())
	require.NoError(t, err)
	return e
}

func call(name, args string) models.ToolCall {
	return models.ToolCall{ID: "call_1", Name: name, Arguments: json.RawMessage(args)}
}

func TestNew(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	e, err := New(&mockQuerier{}, nil)
	require.NoError(t, err)
	assert.Len(t, e.handlers, len(catalog.Names()))
}

func TestCheckRegistry(t *testing.T) {
	noop := func(context.Context, catalog.Args) (interface{}, error) { return nil, nil }
	names := []catalog.Name{catalog.GetAlerts, catalog.AnalyzeThreats}

	err := checkRegistry(map[catalog.Name]handlerFunc{catalog.GetAlerts: noop}, names)
	assert.ErrorContains(t, err, "no handler")

	err = checkRegistry(map[catalog.Name]handlerFunc{
		catalog.GetAlerts: noop, catalog.AnalyzeThreats: noop, "extra": noop,
	}, names)
	assert.ErrorContains(t, err, "not in the catalog")

	err = checkRegistry(map[catalog.Name]handlerFunc{catalog.GetAlerts: noop, catalog.AnalyzeThreats: noop}, names)
	assert.NoError(t, err)
}

func TestExecute_GetAlerts(t *testing.T) {
	store := &mockQuerier{
		QueryFunc: func(_ context.Context, q alertstore.Query) ([]alertstore.Row, error) {
			return []alertstore.Row{
				alertRow("a", "10.0.0.1", "critical", "Malware", 90),
				alertRow("b", "10.0.0.2", "critical", "Malware", 80),
			}, nil
		},
	}
	e := newTestExecutor(t, store)

	result := e.Execute(context.Background(), call("get_alerts", `{"severity":"critical","timeframe":"today"}`))
	require.True(t, result.Success)

	list, ok := result.Data.(models.AlertList)
	require.True(t, ok)
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "a", list.Alerts[0].Name)

	queries := store.recorded()
	require.Len(t, queries, 1)
	assert.Equal(t, "critical", queries[0].Args["severity"])
	assert.Equal(t, 1, queries[0].Args["window_days"])
	assert.Equal(t, catalog.DefaultLimit, queries[0].Args["limit"])
}

func TestExecute_InvalidArguments(t *testing.T) {
	store := &mockQuerier{}
	e := newTestExecutor(t, store)

	result := e.Execute(context.Background(), call("get_alerts", `{"severity":"catastrophic"}`))
	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Contains(t, result.Message, "Invalid arguments")
	assert.Empty(t, store.recorded())
}

func TestExecute_UnsupportedTool(t *testing.T) {
	e := newTestExecutor(t, &mockQuerier{})

	result := e.Execute(context.Background(), call("delete_alerts", `{}`))
	assert.False(t, result.Success)
	assert.Equal(t, "Unsupported tool: delete_alerts", result.Message)
}

func TestExecute_StoreFailureIsCaptured(t *testing.T) {
	store := &mockQuerier{
		QueryFunc: func(context.Context, alertstore.Query) ([]alertstore.Row, error) {
			return nil, errors.New("alert store unavailable: connection refused")
		},
	}
	e := newTestExecutor(t, store)

	result := e.Execute(context.Background(), call("get_alerts", `{}`))
	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	assert.Contains(t, result.Message, "connection refused")
}

func TestExecute_AlertDetails(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		store := &mockQuerier{
			QueryFunc: func(context.Context, alertstore.Query) ([]alertstore.Row, error) {
				return []alertstore.Row{alertRow("ssh-bruteforce", "10.0.0.5", "high", "Brute Force", 75)}, nil
			},
		}
		e := newTestExecutor(t, store)

		result := e.Execute(context.Background(), call("get_alert_details", `{"identifier":"ssh"}`))
		require.True(t, result.Success)
		detail := result.Data.(models.AlertDetail)
		assert.Equal(t, "ssh-bruteforce", detail.Alert.Name)
		assert.Equal(t, risk.AdviceHigh, detail.Recommendation)
		assert.Equal(t, "%ssh%", store.recorded()[0].Args["identifier_pattern"])
	})

	t.Run("not found", func(t *testing.T) {
		e := newTestExecutor(t, &mockQuerier{})

		result := e.Execute(context.Background(), call("get_alert_details", `{"identifier":"10.9.9.9"}`))
		assert.False(t, result.Success)
		assert.Nil(t, result.Data)
		assert.Equal(t, "Alert not found: 10.9.9.9", result.Message)
	})

	t.Run("missing identifier", func(t *testing.T) {
		e := newTestExecutor(t, &mockQuerier{})

		result := e.Execute(context.Background(), call("get_alert_details", `{}`))
		assert.False(t, result.Success)
		assert.Contains(t, result.Message, "identifier")
	})
}

func TestExecute_SecuritySummary(t *testing.T) {
	counts := map[string]interface{}{
		querybuilder.KeyTotal:         "42",
		querybuilder.KeyCritical:      int64(2),
		querybuilder.KeyHigh:          float64(4),
		querybuilder.KeyUniqueSources: int64(9),
	}
	store := &mockQuerier{
		QueryFunc: func(_ context.Context, q alertstore.Query) ([]alertstore.Row, error) {
			return []alertstore.Row{{"count": counts[q.Key]}}, nil
		},
	}
	e := newTestExecutor(t, store)

	result := e.Execute(context.Background(), call("get_security_summary", ``))
	require.True(t, result.Success)

	summary := result.Data.(models.SecuritySummary)
	assert.Equal(t, SummaryPeriod, summary.Period)
	assert.Equal(t, int64(42), summary.TotalAlerts)
	assert.Equal(t, int64(2), summary.CriticalAlerts)
	assert.Equal(t, int64(4), summary.HighAlerts)
	assert.Equal(t, int64(9), summary.UniqueSources)
	assert.Equal(t, "HIGH", summary.RiskLevel)
	assert.Len(t, store.recorded(), 4)
}

func TestExecute_SecuritySummaryDefaultsToZero(t *testing.T) {
	store := &mockQuerier{
		QueryFunc: func(_ context.Context, q alertstore.Query) ([]alertstore.Row, error) {
			switch q.Key {
			case querybuilder.KeyTotal:
				return []alertstore.Row{{"count": "7"}}, nil
			case querybuilder.KeyCritical:
				return nil, errors.New("timeout")
			case querybuilder.KeyHigh:
				return []alertstore.Row{{}}, nil
			default:
				return nil, nil
			}
		},
	}
	e := newTestExecutor(t, store)

	result := e.Execute(context.Background(), call("get_security_summary", `{}`))
	require.True(t, result.Success)

	summary := result.Data.(models.SecuritySummary)
	assert.Equal(t, int64(7), summary.TotalAlerts)
	assert.Zero(t, summary.CriticalAlerts)
	assert.Zero(t, summary.HighAlerts)
	assert.Zero(t, summary.UniqueSources)
	assert.Equal(t, "LOW", summary.RiskLevel)
}

func TestExecute_AnalyzeThreats(t *testing.T) {
	store := &mockQuerier{
		QueryFunc: func(context.Context, alertstore.Query) ([]alertstore.Row, error) {
			return []alertstore.Row{
				alertRow("a", "10.0.0.1", "critical", "Brute Force", 95),
				alertRow("b", "10.0.0.1", "high", "Brute Force", 80),
				alertRow("c", "10.0.0.2", "medium", "", 40),
			}, nil
		},
	}
	e := newTestExecutor(t, store)

	result := e.Execute(context.Background(), call("analyze_threats", `{"threat_type":"brute"}`))
	require.True(t, result.Success)

	analysis := result.Data.(models.ThreatAnalysis)
	assert.Equal(t, 3, analysis.TotalThreats)
	assert.Equal(t, "HIGH", analysis.RiskLevel)
	assert.Equal(t, map[string]int{"Brute Force": 2, "uncategorized": 1}, analysis.Categories)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, analysis.SourceIPs)
	assert.Equal(t, []string{risk.AdviceCritical, risk.AdviceHigh, risk.AdviceMedium}, analysis.Recommendations)
	assert.Equal(t, querybuilder.ThreatAnalysisLimit, store.recorded()[0].Args["limit"])
}
