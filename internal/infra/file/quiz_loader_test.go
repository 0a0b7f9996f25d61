package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"timed-quiz-service/internal/domain"
)

const sampleYAML = `
quizzes:
  - id: js-basics
    title: JavaScript basics
    durationSeconds: 45
    questions:
      - id: q1
        prompt: Which one is an example of an array?
        answer: var array = []
        distractors:
          - var array = {}
          - var array = ()
`

func TestQuizLoaderReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizzes.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	loader := NewQuizLoader(path)

	quiz, err := loader.LoadQuiz(context.Background(), "js-basics")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if quiz.DurationSeconds != 45 || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	q := quiz.Questions[0]
	if q.Answer != "var array = []" || len(q.Distractors) != 2 {
		t.Fatalf("unexpected question %+v", q)
	}
	if err := quiz.Validate(); err != nil {
		t.Fatalf("expected valid quiz: %v", err)
	}

	if _, err := loader.LoadQuiz(context.Background(), "other"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizLoaderMissingFile(t *testing.T) {
	loader := NewQuizLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := loader.LoadQuiz(context.Background(), "js-basics"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
