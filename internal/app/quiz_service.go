package app

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"timed-quiz-service/internal/domain"
)

// SessionRepository abstracts where live play sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(id string, controller *Controller)
	Get(id string) (*Controller, bool)
	Delete(id string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizService opens play sessions and exposes the shared high-score list.
type QuizService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	scores   *HighScoreService
	settings Settings
	log      *zap.Logger
}

func NewQuizService(sessions SessionRepository, quizzes QuizRepository, scores *HighScoreService, settings Settings, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		sessions: sessions,
		quizzes:  quizzes,
		scores:   scores,
		settings: settings,
		log:      log,
	}
}

// Open loads a quiz and registers a controller that renders into view. The
// controller runs until ctx is canceled, after which the session is dropped.
func (s *QuizService) Open(ctx context.Context, quizID string, view View) (string, *Controller, error) {
	content, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", nil, err
	}
	if err := content.Validate(); err != nil {
		return "", nil, err
	}

	id := uuid.NewString()
	controller := NewController(content, s.scores, view, s.settings, s.log.With(zap.String("session_id", id)))
	s.sessions.Put(id, controller)

	go func() {
		controller.Run(ctx)
		s.sessions.Delete(id)
		s.log.Debug("session closed", zap.String("session_id", id))
	}()
	return id, controller, nil
}

// Snapshot returns the state of a live session.
func (s *QuizService) Snapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	controller, ok := s.sessions.Get(sessionID)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return controller.Snapshot(ctx)
}

// HighScores exposes the shared high-score list.
func (s *QuizService) HighScores() *HighScoreService {
	return s.scores
}
