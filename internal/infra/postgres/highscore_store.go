package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"timed-quiz-service/internal/domain"
)

// HighScoreStore keeps high scores in the highscores table. Rows are read
// back in insertion order (by serial id), not sorted by score.
type HighScoreStore struct {
	pool *pgxpool.Pool
}

func NewHighScoreStore(pool *pgxpool.Pool) *HighScoreStore {
	return &HighScoreStore{pool: pool}
}

func (s *HighScoreStore) Load(ctx context.Context) ([]domain.HighScore, error) {
	rows, err := s.pool.Query(ctx, `SELECT author, score, status FROM highscores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load high scores: %w", err)
	}
	defer rows.Close()

	records := []domain.HighScore{}
	for rows.Next() {
		var (
			record domain.HighScore
			status string
		)
		if err := rows.Scan(&record.Author, &record.Score, &status); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptHighScores, err)
		}
		record.Status = domain.FinishStatus(status)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load high scores: %w", err)
	}
	return records, nil
}

func (s *HighScoreStore) Append(ctx context.Context, record domain.HighScore) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO highscores (author, score, status) VALUES ($1, $2, $3)`,
		record.Author, record.Score, string(record.Status))
	if err != nil {
		return fmt.Errorf("append high score: %w", err)
	}
	return nil
}

// Clear empties the highscores table only.
func (s *HighScoreStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM highscores`); err != nil {
		return fmt.Errorf("clear high scores: %w", err)
	}
	return nil
}
