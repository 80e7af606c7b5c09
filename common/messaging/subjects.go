package messaging

// Subject names follow {domain}.{resource}.{action}.
const (
	// SubjectAssistChatCompleted is published after a chat turn is finalized.
	SubjectAssistChatCompleted = "assist.chat.completed"

	// SubjectAssistToolFailed is published when a tool execution fails.
	SubjectAssistToolFailed = "assist.tools.failed"
)

// UserSubject scopes subject to a single caller, e.g.
// assist.chat.completed.analyst-7.
func UserSubject(subject, userID string) string {
	if userID == "" {
		return subject
	}
	return subject + "." + userID
}
