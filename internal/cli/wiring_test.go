package cli

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
)

func TestDefaultQuizzesAreValid(t *testing.T) {
	for id, quiz := range defaultQuizzes() {
		if quiz.ID != id {
			t.Fatalf("quiz keyed %q has id %q", id, quiz.ID)
		}
		if err := quiz.Validate(); err != nil {
			t.Fatalf("quiz %s invalid: %v", id, err)
		}
	}
}

func TestBundledQuizFileMatchesBuiltIn(t *testing.T) {
	_, self, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(self), "..", "..", "config", "quizzes.yaml")

	fromFile, err := file.NewQuizLoader(path).LoadQuiz(context.Background(), defaultQuizID)
	if err != nil {
		t.Fatalf("load bundled quiz: %v", err)
	}
	builtIn := defaultQuizzes()[defaultQuizID]
	if len(fromFile.Questions) != len(builtIn.Questions) {
		t.Fatalf("expected %d questions, got %d", len(builtIn.Questions), len(fromFile.Questions))
	}
	for i, q := range builtIn.Questions {
		got := fromFile.Questions[i]
		if got.Prompt != q.Prompt || got.Answer != q.Answer || len(got.Distractors) != len(q.Distractors) {
			t.Fatalf("question %d differs: %+v vs %+v", i, got, q)
		}
		for j := range q.Distractors {
			if got.Distractors[j] != q.Distractors[j] {
				t.Fatalf("question %d distractor %d: %q vs %q", i, j, got.Distractors[j], q.Distractors[j])
			}
		}
	}
}

func TestSettingsFromConfig(t *testing.T) {
	var cfg config.Config
	if got := settingsFromConfig(cfg); got != app.DefaultSettings() {
		t.Fatalf("expected defaults for empty config, got %+v", got)
	}

	cfg.Quiz.Duration = "90s"
	cfg.Quiz.Penalty = "10s"
	cfg.Quiz.AdvanceDelay = "bogus"
	got := settingsFromConfig(cfg)
	if got.Duration != 90*time.Second || got.Penalty != 10*time.Second || got.AdvanceDelay != 2*time.Second {
		t.Fatalf("unexpected settings %+v", got)
	}
	if quizIDFromConfig(cfg) != defaultQuizID {
		t.Fatalf("expected default quiz id")
	}
}
