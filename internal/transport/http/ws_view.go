package http

import (
	"fmt"
	"time"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type screenPayload struct {
	Screen domain.Screen `json:"screen"`
}

type infoBarPayload struct {
	Visible bool `json:"visible"`
}

type timerPayload struct {
	Remaining int    `json:"remaining"`
	Text      string `json:"text"`
}

type highScoresPayload struct {
	Records []domain.HighScore `json:"records"`
	Rows    []string           `json:"rows"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
	QuizID    string `json:"quizId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// wsView turns controller render calls into outbound websocket messages.
// Sends give up once stop is closed so a dead connection never blocks the
// controller loop.
type wsView struct {
	out  chan<- outboundMessage
	stop <-chan struct{}
}

func (v *wsView) send(msg outboundMessage) {
	select {
	case v.out <- msg:
	case <-v.stop:
	}
}

func (v *wsView) ShowScreen(screen domain.Screen) {
	v.send(outboundMessage{Type: "screen", Payload: screenPayload{Screen: screen}})
}

func (v *wsView) SetInfoBar(visible bool) {
	v.send(outboundMessage{Type: "infoBar", Payload: infoBarPayload{Visible: visible}})
}

func (v *wsView) ClearQuestion() {
	v.send(outboundMessage{Type: "clearQuestion"})
}

func (v *wsView) ShowQuestion(q app.QuestionView) {
	v.send(outboundMessage{Type: "question", Payload: q})
}

func (v *wsView) ShowFeedback(f app.Feedback) {
	v.send(outboundMessage{Type: "feedback", Payload: f})
}

func (v *wsView) ShowTimer(remaining time.Duration) {
	seconds := int(remaining / time.Second)
	v.send(outboundMessage{Type: "timer", Payload: timerPayload{
		Remaining: seconds,
		Text:      fmt.Sprintf("Time Left: %d", seconds),
	}})
}

func (v *wsView) ShowFinish(f app.FinishView) {
	v.send(outboundMessage{Type: "finish", Payload: f})
}

func (v *wsView) ShowHighScores(records []domain.HighScore) {
	v.send(outboundMessage{Type: "highscores", Payload: highScoresPayload{
		Records: records,
		Rows:    app.Render(records),
	}})
}
