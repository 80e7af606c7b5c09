package transcript

import (
	"context"
	"sync"

	"github.com/telhawk-systems/telhawk-assist/internal/models"
)

// MemoryStore keeps transcripts in process memory. Entries never expire.
type MemoryStore struct {
	mu    sync.RWMutex
	turns map[string][]models.ConversationTurn
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{turns: make(map[string][]models.ConversationTurn)}
}

// Append adds turn to the end of id's transcript.
func (s *MemoryStore) Append(_ context.Context, id string, turn models.ConversationTurn) error {
	if id == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	s.turns[id] = append(s.turns[id], turn)
	s.mu.Unlock()
	return nil
}

// Read returns a copy of the most recent limit turns for id.
func (s *MemoryStore) Read(_ context.Context, id string, limit int) ([]models.ConversationTurn, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	limit = normalizeLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := s.turns[id]
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]models.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}

// Len returns the number of turns recorded for id.
func (s *MemoryStore) Len(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns[id])
}
