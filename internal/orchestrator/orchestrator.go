// Package orchestrator runs the two-phase tool protocol for one user turn:
// the engine either answers directly or proposes a tool call, which is
// executed once and folded back for a final, tool-less completion.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/telhawk-systems/telhawk-assist/common/logging"
	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/engine"
	"github.com/telhawk-systems/telhawk-assist/internal/metrics"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
	"github.com/telhawk-systems/telhawk-assist/internal/transcript"
)

var (
	// ErrEngineUnavailable wraps any reasoning engine failure.
	ErrEngineUnavailable = errors.New("reasoning engine unavailable")
	// ErrEmptyMessage is returned for a blank user message.
	ErrEmptyMessage = errors.New("message is required")
	// ErrMissingUser is returned when no caller identity is supplied.
	ErrMissingUser = errors.New("user id is required")
)

// Engine phases.
const (
	PhaseFirst  = "first"
	PhaseSecond = "second"
)

// emptyResponse is returned when the engine finishes with no content.
const emptyResponse = "I wasn't able to generate a response. Please try rephrasing your question."

// ToolExecutor executes a single tool call.
type ToolExecutor interface {
	Execute(ctx context.Context, call models.ToolCall) models.ToolResult
}

// EventPublisher announces finalized turns and failed tool calls.
type EventPublisher interface {
	PublishTurnCompleted(ctx context.Context, userID string, turn models.ConversationTurn) error
	PublishToolFailed(ctx context.Context, userID string, call models.ToolCall, result models.ToolResult) error
}

// Config tunes an Orchestrator.
type Config struct {
	// HistoryTurns is the number of prior turns replayed to the engine.
	HistoryTurns int
}

// Orchestrator handles inbound user messages.
type Orchestrator struct {
	engine      engine.Engine
	executor    ToolExecutor
	transcripts transcript.Store
	publisher   EventPublisher
	logger      *logging.Logger
	cfg         Config
	now         func() time.Time
}

// New creates an Orchestrator. publisher may be nil.
func New(eng engine.Engine, executor ToolExecutor, transcripts transcript.Store, publisher EventPublisher, cfg Config, logger *logging.Logger) *Orchestrator {
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = DefaultHistoryTurns
	}
	return &Orchestrator{
		engine:      eng,
		executor:    executor,
		transcripts: transcripts,
		publisher:   publisher,
		logger:      logging.OrDefault(logger),
		cfg:         cfg,
		now:         time.Now,
	}
}

// HandleMessage answers message for userID. When history is nil the prior
// turns are read from the transcript store.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, message string, history []models.ConversationTurn) (*models.ChatReply, error) {
	start := o.now()
	userID = strings.TrimSpace(userID)
	message = strings.TrimSpace(message)
	if userID == "" {
		return nil, ErrMissingUser
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}

	if history == nil {
		prior, err := o.transcripts.Read(ctx, userID, o.cfg.HistoryTurns)
		if err != nil {
			o.logger.WarnContext(ctx, "failed to load transcript", logging.UserID(userID), logging.Error(err))
		}
		history = prior
	}

	messages := BuildContext(start, history, o.cfg.HistoryTurns, message)

	first, err := o.complete(ctx, PhaseFirst, engine.Request{Messages: messages, Tools: catalog.Definitions()})
	if err != nil {
		return nil, err
	}

	reply := &models.ChatReply{Response: first.Content}
	if first.HasToolCalls() {
		call := first.ToolCalls[0]
		if len(first.ToolCalls) > 1 {
			o.logger.WarnContext(ctx, "engine proposed multiple tool calls, executing only the first",
				logging.Tool(call.Name),
				"proposed", len(first.ToolCalls),
			)
		}

		result := o.executor.Execute(ctx, call)
		if !result.Success && o.publisher != nil {
			if err := o.publisher.PublishToolFailed(ctx, userID, call, result); err != nil {
				o.logger.WarnContext(ctx, "failed to publish tool failure", logging.Tool(call.Name), logging.Error(err))
			}
		}
		payload, err := json.Marshal(result)
		if err != nil {
			payload, _ = json.Marshal(models.Failed("failed to encode tool result: %v", err))
		}

		messages = append(messages,
			engine.Message{Role: engine.RoleAssistant, Content: first.Content, ToolCalls: []models.ToolCall{call}},
			engine.Message{Role: engine.RoleTool, ToolCallID: call.ID, Content: string(payload)},
		)

		second, err := o.complete(ctx, PhaseSecond, engine.Request{Messages: messages})
		if err != nil {
			return nil, err
		}
		if second.HasToolCalls() {
			o.logger.WarnContext(ctx, "ignoring tool calls proposed after tool result", "proposed", len(second.ToolCalls))
		}

		reply = &models.ChatReply{Response: second.Content, ToolUsed: true, ToolName: call.Name}
	}

	if strings.TrimSpace(reply.Response) == "" {
		reply.Response = emptyResponse
	}

	turn := models.ConversationTurn{
		Timestamp:   o.now(),
		UserMessage: message,
		Response:    reply.Response,
		ToolUsed:    reply.ToolUsed,
		ToolName:    reply.ToolName,
	}
	o.finalize(ctx, userID, turn)

	metrics.RecordChatTurn(reply.ToolUsed, o.now().Sub(start))
	o.logger.InfoContext(ctx, "chat turn completed",
		logging.UserID(userID),
		"tool_used", reply.ToolUsed,
		logging.Tool(reply.ToolName),
		logging.Duration(o.now().Sub(start)),
	)
	return reply, nil
}

func (o *Orchestrator) complete(ctx context.Context, phase string, req engine.Request) (*engine.Completion, error) {
	start := time.Now()
	completion, err := o.engine.Complete(ctx, req)
	if err == nil && completion == nil {
		err = errors.New("empty completion")
	}
	metrics.ObserveEngineCall(phase, err, time.Since(start))
	if err != nil {
		o.logger.ErrorContext(ctx, "engine call failed", logging.Phase(phase), logging.Error(err))
		return nil, fmt.Errorf("%w: %s call: %v", ErrEngineUnavailable, phase, err)
	}
	return completion, nil
}

// finalize records the turn and announces it. Neither step can fail the turn.
func (o *Orchestrator) finalize(ctx context.Context, userID string, turn models.ConversationTurn) {
	if err := o.transcripts.Append(ctx, userID, turn); err != nil {
		o.logger.ErrorContext(ctx, "failed to append transcript", logging.UserID(userID), logging.Error(err))
	}
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishTurnCompleted(ctx, userID, turn); err != nil {
		o.logger.WarnContext(ctx, "failed to publish turn event", logging.UserID(userID), logging.Error(err))
	}
}
