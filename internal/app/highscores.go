package app

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"timed-quiz-service/internal/domain"
)

// HighScoreRepository persists the ordered high-score list.
type HighScoreRepository interface {
	Load(ctx context.Context) ([]domain.HighScore, error)
	Append(ctx context.Context, record domain.HighScore) error
	Clear(ctx context.Context) error
}

// HighScoreService applies the submission rules on top of a repository.
type HighScoreService struct {
	repo HighScoreRepository
	log  *zap.Logger
}

func NewHighScoreService(repo HighScoreRepository, log *zap.Logger) *HighScoreService {
	if log == nil {
		log = zap.NewNop()
	}
	return &HighScoreService{repo: repo, log: log}
}

// Submit appends a record for the given initials. Blank initials are
// rejected without error; the boolean reports whether anything was stored.
func (s *HighScoreService) Submit(ctx context.Context, initials string, score int, status domain.FinishStatus) (domain.HighScore, bool, error) {
	initials = strings.TrimSpace(initials)
	if initials == "" {
		return domain.HighScore{}, false, nil
	}
	record := domain.HighScore{Author: initials, Score: score, Status: status}
	if err := s.repo.Append(ctx, record); err != nil {
		return record, false, err
	}
	s.log.Debug("high score submitted", zap.String("author", record.Author), zap.Int("score", score), zap.String("status", string(status)))
	return record, true, nil
}

// List returns the stored records in insertion order. Unreadable storage
// yields an empty list.
func (s *HighScoreService) List(ctx context.Context) []domain.HighScore {
	records, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptHighScores) {
			s.log.Warn("ignoring corrupt high scores", zap.Error(err))
		} else {
			s.log.Warn("load high scores failed", zap.Error(err))
		}
		return []domain.HighScore{}
	}
	if records == nil {
		records = []domain.HighScore{}
	}
	return records
}

// Clear wipes every stored record.
func (s *HighScoreService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// Render produces one display row per record, in storage order.
func Render(records []domain.HighScore) []string {
	rows := make([]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return rows
}
