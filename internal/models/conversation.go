package models

import "time"

// ConversationTurn is one finalized exchange in a caller's transcript.
type ConversationTurn struct {
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	UserMessage string    `json:"userMessage" yaml:"userMessage"`
	Response    string    `json:"response" yaml:"response"`
	ToolUsed    bool      `json:"toolUsed" yaml:"toolUsed"`
	ToolName    string    `json:"toolName,omitempty" yaml:"toolName,omitempty"`
}

// ChatReply is returned to the caller for each handled message.
type ChatReply struct {
	Response string `json:"response" yaml:"response"`
	ToolUsed bool   `json:"toolUsed" yaml:"toolUsed"`
	ToolName string `json:"toolName,omitempty" yaml:"toolName,omitempty"`
}
