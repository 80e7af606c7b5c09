package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/telhawk-systems/telhawk-assist/common/messaging"
	"github.com/telhawk-systems/telhawk-assist/common/middleware"
	"github.com/telhawk-systems/telhawk-assist/internal/metrics"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// Publisher publishes assist events.
type Publisher struct {
	client messaging.Publisher
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(client messaging.Publisher) *Publisher {
	return &Publisher{client: client}
}

// PublishTurnCompleted publishes a turn completed event.
func (p *Publisher) PublishTurnCompleted(ctx context.Context, userID string, turn models.ConversationTurn) error {
	event := &TurnCompletedEvent{
		UserID:    userID,
		ToolUsed:  turn.ToolUsed,
		ToolName:  turn.ToolName,
		Timestamp: turn.Timestamp,
		RequestID: middleware.GetRequestID(ctx),
	}
	return p.publish(ctx, messaging.SubjectAssistChatCompleted, event)
}

// PublishToolFailed publishes a tool failure event scoped to userID.
func (p *Publisher) PublishToolFailed(ctx context.Context, userID string, call models.ToolCall, result models.ToolResult) error {
	event := &ToolFailedEvent{
		UserID:     userID,
		Tool:       call.Name,
		ToolCallID: call.ID,
		Message:    result.Message,
		Timestamp:  time.Now().UTC(),
		RequestID:  middleware.GetRequestID(ctx),
	}
	return p.publish(ctx, messaging.UserSubject(messaging.SubjectAssistToolFailed, userID), event)
}

// publish marshals data to JSON and publishes it to subject.
func (p *Publisher) publish(ctx context.Context, subject string, data interface{}) error {
	bytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := &messaging.Message{Subject: subject, Data: bytes, Timestamp: time.Now().UTC()}
	if id := middleware.GetRequestID(ctx); id != "" {
		msg.Metadata = map[string]string{middleware.HeaderRequestID: id}
	}

	err = p.client.PublishMsg(ctx, msg)
	metrics.EventsPublishedTotal.WithLabelValues(subjectLabel(subject), metrics.StatusOf(err)).Inc()
	return err
}

// subjectLabel drops the per-user suffix to keep metric cardinality bounded.
func subjectLabel(subject string) string {
	if strings.HasPrefix(subject, messaging.SubjectAssistToolFailed+".") {
		return messaging.SubjectAssistToolFailed
	}
	return subject
}
