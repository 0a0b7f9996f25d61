package redis

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"timed-quiz-service/internal/domain"
)

func TestHighScoreStoreSubmitAgainstEmpty(t *testing.T) {
	mr, store := newHighScoreStore(t)
	ctx := context.Background()

	record := domain.HighScore{Author: "AB", Score: 2, Status: domain.FinishCompleted}
	if err := store.Append(ctx, record); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(records) != 1 || records[0] != record {
		t.Fatalf("expected exactly %+v, got %+v", record, records)
	}

	raw, _ := mr.Get(DefaultHighScoreKey)
	if raw != `[{"author":"AB","score":2,"status":"completed"}]` {
		t.Fatalf("unexpected stored payload %s", raw)
	}
}

func TestHighScoreStoreClearIsScopedToKey(t *testing.T) {
	mr, store := newHighScoreStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = store.Append(ctx, domain.HighScore{Author: "ZZ", Score: i, Status: domain.FinishTimedOut})
	}
	_ = mr.Set("unrelated", "keep-me")

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	records, _ := store.Load(ctx)
	if len(records) != 0 {
		t.Fatalf("expected empty list, got %+v", records)
	}
	if !mr.Exists("unrelated") {
		t.Fatalf("clear removed an unrelated key")
	}
}

func TestHighScoreStoreCorruptData(t *testing.T) {
	mr, store := newHighScoreStore(t)
	ctx := context.Background()
	_ = mr.Set(DefaultHighScoreKey, "{not json")

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrCorruptHighScores) {
		t.Fatalf("expected ErrCorruptHighScores, got %v", err)
	}

	record := domain.HighScore{Author: "AB", Score: 1, Status: domain.FinishCompleted}
	if err := store.Append(ctx, record); err != nil {
		t.Fatalf("append over corrupt data: %v", err)
	}
	records, err := store.Load(ctx)
	if err != nil || len(records) != 1 {
		t.Fatalf("expected corrupt list replaced, got %+v %v", records, err)
	}
}

func newHighScoreStore(t *testing.T) (*miniredis.Miniredis, *HighScoreStore) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, NewHighScoreStore(newClient(mr), "")
}
