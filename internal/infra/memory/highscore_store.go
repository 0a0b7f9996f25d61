package memory

import (
	"context"
	"sync"

	"timed-quiz-service/internal/domain"
)

// HighScoreStore keeps the high-score list in process memory.
type HighScoreStore struct {
	mu      sync.RWMutex
	records []domain.HighScore
}

func NewHighScoreStore() *HighScoreStore {
	return &HighScoreStore{}
}

func (s *HighScoreStore) Load(_ context.Context) ([]domain.HighScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HighScore, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *HighScoreStore) Append(_ context.Context, record domain.HighScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *HighScoreStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}
