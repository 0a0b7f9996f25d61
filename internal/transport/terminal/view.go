package terminal

import (
	"fmt"
	"io"
	"sync"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// View renders the quiz as plain text lines.
type View struct {
	mu  sync.Mutex
	out io.Writer
}

func NewView(out io.Writer) *View {
	return &View{out: out}
}

func (v *View) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *View) ShowScreen(screen domain.Screen) {
	switch screen {
	case domain.ScreenIntro:
		v.printf("\n== Coding Quiz ==\nType 'start' to begin, 'scores' to view high scores, 'quit' to exit.\n")
	case domain.ScreenFinish:
		v.printf("\n== All done! ==\n")
	case domain.ScreenHighScores:
		v.printf("\n== High Scores ==\n")
	}
}

// SetInfoBar is a no-op; the timer line is printed on every tick instead.
func (v *View) SetInfoBar(bool) {}

func (v *View) ClearQuestion() {}

func (v *View) ShowQuestion(q app.QuestionView) {
	v.printf("\n%s\n", q.Title)
	for i, c := range q.Controls {
		v.printf("  %d) %s\n", i+1, c.Text)
	}
}

func (v *View) ShowFeedback(f app.Feedback) {
	v.printf("%s\n", f.Message)
}

func (v *View) ShowTimer(remaining time.Duration) {
	v.printf("Time Left: %d\n", int(remaining/time.Second))
}

func (v *View) ShowFinish(f app.FinishView) {
	v.printf("%s (%s)\nType 'submit <initials>' to save your score.\n", f.Message, f.Status)
}

func (v *View) ShowHighScores(records []domain.HighScore) {
	if len(records) == 0 {
		v.printf("  (none yet)\n")
	}
	for i, row := range app.Render(records) {
		v.printf("  %d. %s\n", i+1, row)
	}
	v.printf("Type 'back' or 'clear'.\n")
}
