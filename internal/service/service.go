// Package service exposes the caller-facing assist operations.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/telhawk-systems/telhawk-assist/internal/catalog"
	"github.com/telhawk-systems/telhawk-assist/internal/models"
	"github.com/telhawk-systems/telhawk-assist/internal/transcript"
)

// ErrMissingUser is returned when an operation needs a caller identity.
var ErrMissingUser = errors.New("user id is required")

// Chatter answers one user message.
type Chatter interface {
	HandleMessage(ctx context.Context, userID, message string, history []models.ConversationTurn) (*models.ChatReply, error)
}

// StatsComputer produces dashboard statistics.
type StatsComputer interface {
	Compute(ctx context.Context) models.DashboardStats
}

// Pinger reports dependency health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service provides business logic for the assist service
type Service struct {
	chat        Chatter
	transcripts transcript.Store
	stats       StatsComputer
	deps        map[string]Pinger
}

// NewService creates a new Service instance
func NewService(chat Chatter, transcripts transcript.Store, stats StatsComputer) *Service {
	return &Service{chat: chat, transcripts: transcripts, stats: stats, deps: map[string]Pinger{}}
}

// WithDependency registers a dependency checked by Ready.
func (s *Service) WithDependency(name string, p Pinger) *Service {
	s.deps[name] = p
	return s
}

// HandleMessage answers message for userID. A nil history means the
// transcript store supplies prior turns.
func (s *Service) HandleMessage(ctx context.Context, userID, message string, history []models.ConversationTurn) (*models.ChatReply, error) {
	return s.chat.HandleMessage(ctx, userID, message, history)
}

// GetHistory returns the most recent limit turns for userID.
func (s *Service) GetHistory(ctx context.Context, userID string, limit int) ([]models.ConversationTurn, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	return s.transcripts.Read(ctx, userID, limit)
}

// GetDashboardStats recomputes dashboard statistics.
func (s *Service) GetDashboardStats(ctx context.Context) models.DashboardStats {
	return s.stats.Compute(ctx)
}

// Tools returns the tool catalog.
func (s *Service) Tools() []catalog.ToolSpec {
	return catalog.List()
}

// Ready checks every registered dependency and returns the failures by name.
func (s *Service) Ready(ctx context.Context) map[string]error {
	failures := make(map[string]error)
	for name, dep := range s.deps {
		if err := dep.Ping(ctx); err != nil {
			failures[name] = err
		}
	}
	return failures
}
