package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"trivia-quiz-service/internal/app"
)

// WSHandler carries the same actions as the form endpoint over a websocket,
// one JSON request frame per JSON reply frame.
type WSHandler struct {
	service  *app.QuizService
	log      logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, log logrus.FieldLogger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// actionMessage mirrors the form parameters. Absent fields stay empty so the
// dispatcher can tell missing from blank. question_id and answer may be sent
// as JSON strings or numbers.
type actionMessage struct {
	Email      *string         `json:"email"`
	Action     *string         `json:"action"`
	QuestionID json.RawMessage `json:"question_id"`
	Answer     json.RawMessage `json:"answer"`
}

type replyMessage struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Debug("ws read error")
			}
			return
		}

		var msg actionMessage
		reply := replyMessage{Status: http.StatusBadRequest, Body: errorPrefix + "Invalid message"}
		if err := json.Unmarshal(data, &msg); err == nil {
			res, err := h.service.Dispatch(r.Context(), msg.params())
			reply.Status, reply.Body = outcome(res, err)
			if reply.Status >= http.StatusInternalServerError {
				h.log.WithError(err).Error("ws action failed")
			}
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.log.WithError(err).Debug("ws write error")
			return
		}
	}
}

func (m actionMessage) params() url.Values {
	values := url.Values{}
	if m.Email != nil {
		values.Set("email", *m.Email)
	}
	if m.Action != nil {
		values.Set("action", *m.Action)
	}
	if v, ok := scalar(m.QuestionID); ok {
		values.Set("question_id", v)
	}
	if v, ok := scalar(m.Answer); ok {
		values.Set("answer", v)
	}
	return values
}

// scalar renders a JSON string or literal as its plain text form.
func scalar(raw json.RawMessage) (string, bool) {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return text, true
}
