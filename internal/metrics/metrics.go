package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Conversation metrics
	ChatTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_assist_chat_turns_total",
			Help: "Total number of completed chat turns",
		},
		[]string{"tool_used"},
	)

	ChatTurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telhawk_assist_chat_turn_duration_seconds",
			Help:    "Duration of a full chat turn in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Reasoning engine metrics
	EngineCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_assist_engine_calls_total",
			Help: "Total number of reasoning engine calls",
		},
		[]string{"phase", "status"},
	)

	EngineCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telhawk_assist_engine_call_duration_seconds",
			Help:    "Duration of reasoning engine calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"phase"},
	)

	// Tool metrics
	ToolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_assist_tool_executions_total",
			Help: "Total number of tool executions",
		},
		[]string{"tool", "status"},
	)

	// Alert store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telhawk_assist_store_query_duration_seconds",
			Help:    "Duration of alert store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query", "status"},
	)

	// Dashboard metrics
	StatsComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telhawk_assist_stats_compute_duration_seconds",
			Help:    "Duration of dashboard statistics computation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StatsQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_assist_stats_query_errors_total",
			Help: "Total number of failed dashboard sub-queries",
		},
		[]string{"query"},
	)

	// Event publishing metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_assist_events_published_total",
			Help: "Total number of turn events published",
		},
		[]string{"subject", "status"},
	)
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// StatusOf maps err to a status label.
func StatusOf(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// ObserveStoreQuery records the duration of one alert store query.
func ObserveStoreQuery(key, status string, d time.Duration) {
	StoreQueryDuration.WithLabelValues(key, status).Observe(d.Seconds())
}

// ObserveEngineCall records one reasoning engine call for the given phase.
func ObserveEngineCall(phase string, err error, d time.Duration) {
	EngineCallsTotal.WithLabelValues(phase, StatusOf(err)).Inc()
	EngineCallDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// RecordToolExecution counts one tool execution.
func RecordToolExecution(tool string, success bool) {
	status := StatusOK
	if !success {
		status = StatusError
	}
	ToolExecutionsTotal.WithLabelValues(tool, status).Inc()
}

// RecordChatTurn counts one finalized chat turn.
func RecordChatTurn(toolUsed bool, d time.Duration) {
	label := "false"
	if toolUsed {
		label = "true"
	}
	ChatTurnsTotal.WithLabelValues(label).Inc()
	ChatTurnDuration.Observe(d.Seconds())
}
