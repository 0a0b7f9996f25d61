package app

import (
	"time"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quiz"
)

// View is the rendering boundary. Controllers only ever hand it data; how the
// data becomes pixels or text is up to the transport.
type View interface {
	ShowScreen(screen domain.Screen)
	SetInfoBar(visible bool)
	ClearQuestion()
	ShowQuestion(q QuestionView)
	ShowFeedback(f Feedback)
	ShowTimer(remaining time.Duration)
	ShowFinish(f FinishView)
	ShowHighScores(records []domain.HighScore)
}

// Control is one rendered answer choice.
type Control struct {
	ID   quiz.ControlID `json:"id"`
	Text string         `json:"text"`
}

// QuestionView carries everything needed to draw a question.
// LockHeight asks the client to pin each control's min-height to its
// measured height before the content is swapped.
type QuestionView struct {
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Prompt     string    `json:"prompt"`
	Controls   []Control `json:"controls"`
	LockHeight bool      `json:"lockHeight"`
}

// ControlColor recolors a single control.
type ControlColor struct {
	ID    quiz.ControlID `json:"id"`
	Color string         `json:"color"`
}

// Feedback describes the post-answer state of the question screen.
type Feedback struct {
	Chosen       quiz.ControlID `json:"chosen"`
	Outcome      domain.Outcome `json:"outcome"`
	Message      string         `json:"message"`
	MessageColor string         `json:"messageColor"`
	Colors       []ControlColor `json:"colors"`
}

// FinishView is the content of the finish screen.
type FinishView struct {
	Score   int                 `json:"score"`
	Status  domain.FinishStatus `json:"status"`
	Message string              `json:"message"`
}
