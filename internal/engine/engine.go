// Package engine talks to the reasoning engine that plans tool calls and
// writes the assistant's prose.
package engine

import (
	"context"
	"encoding/json"

	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of the conversation context sent to the engine.
type Message struct {
	Role       string            `json:"role"`
	Content    string            `json:"content,omitempty"`
	ToolCalls  []models.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
}

// Request is a completion request. A nil Tools slice means the engine must
// not propose any tool call.
type Request struct {
	Messages []Message
	Tools    []catalog.Definition
}

// Completion is the engine's answer: prose, proposed tool calls, or both.
type Completion struct {
	Content      string
	ToolCalls    []models.ToolCall
	FinishReason string
}

// HasToolCalls reports whether the engine proposed at least one tool call.
func (c *Completion) HasToolCalls() bool {
	return c != nil && len(c.ToolCalls) > 0
}

// Engine produces completions.
type Engine interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// argumentsString renders tool-call arguments as the JSON object text the
// wire format expects. Arguments that are themselves a JSON string are
// unquoted.
func argumentsString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}
