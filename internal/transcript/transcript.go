// Package transcript stores the per-caller history of finalized turns.
package transcript

import (
	"context"
	"errors"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// DefaultReadLimit is used when Read is called with a non-positive limit.
const DefaultReadLimit = 50

// ErrEmptyID is returned when a conversation id is blank.
var ErrEmptyID = errors.New("transcript: conversation id is required")

// Store records finalized turns keyed by conversation or user id. Read
// returns the most recent limit turns in chronological order.
type Store interface {
	Append(ctx context.Context, id string, turn models.ConversationTurn) error
	Read(ctx context.Context, id string, limit int) ([]models.ConversationTurn, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultReadLimit
	}
	return limit
}
