// Package nats announces assistant activity on the NATS message bus.
package nats

import "time"

// TurnCompletedEvent is published to assist.chat.completed after a chat turn
// is finalized and recorded.
type TurnCompletedEvent struct {
	UserID    string    `json:"user_id"`
	ToolUsed  bool      `json:"tool_used"`
	ToolName  string    `json:"tool_name,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// ToolFailedEvent is published to assist.tools.failed.{user_id} when a tool
// execution returns a failed result.
type ToolFailedEvent struct {
	UserID     string    `json:"user_id"`
	Tool       string    `json:"tool"`
	ToolCallID string    `json:"tool_call_id,omitempty"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}
