package logging

import (
	"log/slog"
	"time"
)

// Field names used across the assist service.
const (
	FieldService    = "service"
	FieldRequestID  = "request_id"
	FieldUserID     = "user_id"
	FieldTool       = "tool"
	FieldToolCallID = "tool_call_id"
	FieldPhase      = "phase"
	FieldQueryKey   = "query_key"
	FieldRows       = "rows"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// RequestID returns a slog attribute for the request ID.
func RequestID(id string) slog.Attr {
	return slog.String(FieldRequestID, id)
}

// UserID returns a slog attribute for the caller identity.
func UserID(id string) slog.Attr {
	return slog.String(FieldUserID, id)
}

// Tool returns a slog attribute for a tool name.
func Tool(name string) slog.Attr {
	return slog.String(FieldTool, name)
}

// ToolCallID returns a slog attribute for the engine-assigned tool call ID.
func ToolCallID(id string) slog.Attr {
	return slog.String(FieldToolCallID, id)
}

// Phase returns a slog attribute naming the orchestration phase.
func Phase(phase string) slog.Attr {
	return slog.String(FieldPhase, phase)
}

// QueryKey returns a slog attribute identifying a store query within a batch.
func QueryKey(key string) slog.Attr {
	return slog.String(FieldQueryKey, key)
}

// Rows returns a slog attribute for a row count.
func Rows(n int) slog.Attr {
	return slog.Int(FieldRows, n)
}

// Duration returns a slog attribute for an elapsed duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
