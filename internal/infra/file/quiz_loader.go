package file

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"timed-quiz-service/internal/domain"
)

type quizFile struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// QuizLoader reads quiz content from a YAML file. The file is re-read on
// every load so edits are picked up once the repository cache expires.
type QuizLoader struct {
	path string
}

func NewQuizLoader(path string) *QuizLoader {
	return &QuizLoader{path: path}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	quizzes, err := l.LoadAll()
	if err != nil {
		return domain.Quiz{}, err
	}
	for _, quiz := range quizzes {
		if quiz.ID == quizID {
			return quiz, nil
		}
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// LoadAll returns every quiz in the file.
func (l *QuizLoader) LoadAll() ([]domain.Quiz, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	var parsed quizFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}
	return parsed.Quizzes, nil
}
