package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/infra/memory"
)

func TestOpenRegistersSessionUntilCanceled(t *testing.T) {
	sessions := memory.NewSessionStore()
	service := newTestService(sessions)
	ctx, cancel := context.WithCancel(context.Background())

	id, controller, err := service.Open(ctx, "quiz-1", newFakeView())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if id == "" || sessions.Len() != 1 {
		t.Fatalf("expected one registered session, got id=%q len=%d", id, sessions.Len())
	}

	snap, err := service.Snapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Screen != domain.ScreenIntro || snap.State != "notStarted" || snap.QuestionCount != 2 {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}

	cancel()
	<-controller.Done()
	deadline := time.Now().Add(time.Second)
	for sessions.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("session was not removed after cancel")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := service.Snapshot(context.Background(), id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestOpenUnknownQuiz(t *testing.T) {
	service := newTestService(memory.NewSessionStore())

	_, _, err := service.Open(context.Background(), "missing", newFakeView())
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestOpenRejectsInvalidQuiz(t *testing.T) {
	loader := memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"broken": {ID: "broken", Questions: []domain.Question{{Prompt: "?", Answer: "a", Distractors: []string{"a"}}}},
	})
	sessions := memory.NewSessionStore()
	service := app.NewQuizService(sessions, memory.NewQuizRepository(loader, time.Minute), app.NewHighScoreService(memory.NewHighScoreStore(), nil), testSettings(), nil)

	_, _, err := service.Open(context.Background(), "broken", newFakeView())
	if !errors.Is(err, domain.ErrInvalidQuestion) {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
	if sessions.Len() != 0 {
		t.Fatalf("invalid quiz must not register a session")
	}
}

func newTestService(sessions app.SessionRepository) *app.QuizService {
	loader := memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": testQuiz(2)})
	quizzes := memory.NewQuizRepository(loader, time.Minute)
	scores := app.NewHighScoreService(memory.NewHighScoreStore(), nil)
	return app.NewQuizService(sessions, quizzes, scores, testSettings(), nil)
}
