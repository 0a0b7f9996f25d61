package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"timed-quiz-service/internal/domain"
)

// DefaultHighScoreKey is the key holding the JSON array of high scores.
const DefaultHighScoreKey = "highscores"

const maxAppendRetries = 5

// HighScoreStore keeps the whole high-score list as a JSON array under one key:
//
//	SET highscores '[{"author":"AB","score":2,"status":"completed"}]'
//
// Appends run in a WATCH transaction so concurrent submissions do not drop records.
type HighScoreStore struct {
	client *redis.Client
	key    string
}

func NewHighScoreStore(client *redis.Client, key string) *HighScoreStore {
	if key == "" {
		key = DefaultHighScoreKey
	}
	return &HighScoreStore{client: client, key: key}
}

func (s *HighScoreStore) Load(ctx context.Context) ([]domain.HighScore, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.HighScore{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load high scores: %w", err)
	}
	return decodeHighScores(raw)
}

func (s *HighScoreStore) Append(ctx context.Context, record domain.HighScore) error {
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, s.key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		records, err := decodeHighScores(raw)
		if err != nil {
			// unreadable history is replaced rather than blocking new scores
			records = nil
		}
		data, err := json.Marshal(append(records, record))
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxAppendRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("append high score: %w", err)
	}
	return fmt.Errorf("append high score: %w", redis.TxFailedErr)
}

// Clear removes only the high-score key.
func (s *HighScoreStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear high scores: %w", err)
	}
	return nil
}

func decodeHighScores(raw []byte) ([]domain.HighScore, error) {
	if len(raw) == 0 {
		return []domain.HighScore{}, nil
	}
	var records []domain.HighScore
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptHighScores, err)
	}
	if records == nil {
		records = []domain.HighScore{}
	}
	return records, nil
}
