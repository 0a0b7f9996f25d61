package app_test

import (
	"testing"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

type viewEvent struct {
	kind    string
	payload any
}

// fakeView records render calls so tests can wait on them in order.
type fakeView struct {
	events chan viewEvent
}

func newFakeView() *fakeView {
	return &fakeView{events: make(chan viewEvent, 256)}
}

func (v *fakeView) record(kind string, payload any) {
	v.events <- viewEvent{kind: kind, payload: payload}
}

func (v *fakeView) ShowScreen(s domain.Screen)           { v.record("screen", s) }
func (v *fakeView) SetInfoBar(visible bool)              { v.record("infoBar", visible) }
func (v *fakeView) ClearQuestion()                       { v.record("clear", nil) }
func (v *fakeView) ShowQuestion(q app.QuestionView)      { v.record("question", q) }
func (v *fakeView) ShowFeedback(f app.Feedback)          { v.record("feedback", f) }
func (v *fakeView) ShowTimer(d time.Duration)            { v.record("timer", d) }
func (v *fakeView) ShowFinish(f app.FinishView)          { v.record("finish", f) }
func (v *fakeView) ShowHighScores(rs []domain.HighScore) { v.record("highscores", rs) }

// expect skips events until one of the given kind arrives.
func (v *fakeView) expect(t *testing.T, kind string) any {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev := <-v.events:
			if ev.kind == kind {
				return ev.payload
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
			return nil
		}
	}
}

// expectNone fails if an event of kind arrives within d.
func (v *fakeView) expectNone(t *testing.T, kind string, d time.Duration) {
	t.Helper()
	timeout := time.After(d)
	for {
		select {
		case ev := <-v.events:
			if ev.kind == kind {
				t.Fatalf("unexpected %s event: %+v", kind, ev.payload)
			}
		case <-timeout:
			return
		}
	}
}
