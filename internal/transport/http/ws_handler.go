package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/quiz"
)

type WSHandler struct {
	service       *app.QuizService
	defaultQuizID string
	upgrader      websocket.Upgrader
	log           *zap.Logger
}

func NewWSHandler(service *app.QuizService, defaultQuizID string, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service:       service,
		defaultQuizID: defaultQuizID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	ControlID string `json:"controlId"`
}

type submitScorePayload struct {
	Initials string `json:"initials"`
}

// ServeWS upgrades HTTP requests to websockets and gives each connection its
// own quiz controller.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		quizID = h.defaultQuizID
	}
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage, 32)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	view := &wsView{out: send, stop: writerDone}
	sessionID, controller, err := h.service.Open(ctx, quizID, view)
	if err != nil {
		view.send(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		close(send)
		<-writerDone
		return
	}
	view.send(outboundMessage{Type: "session", Payload: sessionPayload{SessionID: sessionID, QuizID: quizID}})
	h.log.Debug("session opened", zap.String("session_id", sessionID), zap.String("quiz_id", quizID))

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(controller, inbound); err != nil {
			view.send(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		}
	}

	cancel()
	<-controller.Done()
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(controller *app.Controller, msg inboundMessage) error {
	switch msg.Type {
	case "start":
		return controller.Start()
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return controller.Click(quiz.ControlID(payload.ControlID))
	case "submitScore":
		var payload submitScorePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		return controller.SubmitScore(payload.Initials)
	case "viewHighscores":
		return controller.ViewHighScores()
	case "clearHighscores":
		return controller.ClearHighScores()
	case "back":
		return controller.Back()
	default:
		return errUnsupportedMessage
	}
}
