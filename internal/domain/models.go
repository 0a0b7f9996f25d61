package domain

import "fmt"

// Question is the static content of a multiple-choice question.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Prompt      string   `json:"prompt" yaml:"prompt" validate:"required"`
	Answer      string   `json:"answer" yaml:"answer" validate:"required"`
	Distractors []string `json:"distractors" yaml:"distractors" validate:"dive,required"`
}

// Quiz is a collection of questions played against a single countdown.
type Quiz struct {
	ID              string     `json:"id" yaml:"id" validate:"required"`
	Title           string     `json:"title" yaml:"title"`
	DurationSeconds int        `json:"durationSeconds" yaml:"durationSeconds" validate:"gte=0"`
	Questions       []Question `json:"questions" yaml:"questions" validate:"required,min=1,dive"`
}

// FinishStatus classifies why a quiz ended.
type FinishStatus string

const (
	FinishNone      FinishStatus = ""
	FinishCompleted FinishStatus = "completed"
	FinishTimedOut  FinishStatus = "timedOut"
)

// Outcome is the result of answering a single question.
type Outcome string

const (
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Screen identifies one of the four mutually exclusive quiz screens.
type Screen string

const (
	ScreenIntro      Screen = "intro"
	ScreenQuestion   Screen = "question"
	ScreenFinish     Screen = "finish"
	ScreenHighScores Screen = "highscores"
)

// Colors used when recoloring answer controls and the feedback panel.
const (
	ColorCorrect      = "#88dc8a"
	ColorIncorrect    = "#bb2f2f"
	ColorRightAnswer  = "#39912b"
	FeedbackCorrect   = "Correct!"
	FeedbackIncorrect = "Incorrect"
)

// HighScore is a persisted result of a finished quiz.
type HighScore struct {
	Author string       `json:"author"`
	Score  int          `json:"score"`
	Status FinishStatus `json:"status"`
}

// Row renders the record the way the high-score list displays it.
func (h HighScore) Row() string {
	return fmt.Sprintf("%s - %d | %s", h.Author, h.Score, h.Status)
}
