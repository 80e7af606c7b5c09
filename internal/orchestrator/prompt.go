package orchestrator

import (
	"fmt"
	"time"

	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/engine"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// DefaultHistoryTurns is the number of prior turns replayed to the engine.
const DefaultHistoryTurns = 10

const systemPromptTemplate = `You are TelHawk Assist, a security operations assistant. You help analysts understand security alerts stored in the TelHawk alert store.

Current time: %s

You may call exactly one of the following tools when the question needs alert data. Call at most one tool per question. If no tool is needed, answer directly.

Available tools:
%s

Guidelines:
- Use get_alerts to list alerts, filtering by severity and timeframe (today, week, month) when the user asks for them.
- Use get_alert_details when the user names a specific alert or IP address.
- Use get_security_summary for an overview of the last 24 hours.
- Use analyze_threats for patterns, threat categories or a specific source IP.
- Base every statement on tool results. Never invent alerts, counts or IP addresses.
- If a tool reports a failure, tell the user plainly what went wrong.
- Keep answers concise and actionable.`

// SystemPrompt renders the system instructions, embedding the serialized
// tool catalog sent to the engine.
func SystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, now.UTC().Format(time.RFC3339), catalog.JSON())
}

// BuildContext assembles the engine context: system instructions, the most
// recent prior turns as user/assistant pairs and the new user message.
func BuildContext(now time.Time, history []models.ConversationTurn, maxTurns int, message string) []engine.Message {
	if maxTurns <= 0 {
		maxTurns = DefaultHistoryTurns
	}
	if len(history) > maxTurns {
		history = history[len(history)-maxTurns:]
	}

	messages := make([]engine.Message, 0, 2+2*len(history))
	messages = append(messages, engine.Message{Role: engine.RoleSystem, Content: SystemPrompt(now)})
	for _, turn := range history {
		messages = append(messages,
			engine.Message{Role: engine.RoleUser, Content: turn.UserMessage},
			engine.Message{Role: engine.RoleAssistant, Content: turn.Response},
		)
	}
	return append(messages, engine.Message{Role: engine.RoleUser, Content: message})
}
