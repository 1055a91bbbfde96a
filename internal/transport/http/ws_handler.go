package http

import (
	"encoding/json"
	"net/http"

	"learning-challenge-service/internal/app"
	"learning-challenge-service/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler is the chat-channel stand-in: one websocket per user session,
// speaking typed JSON envelopes for the course commands.
type WSHandler struct {
	service  *app.CourseService
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.CourseService, hub *Hub, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		hub:     hub,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type reminderPayload struct {
	Message string `json:"message"`
}

type enrolledPayload struct {
	UserID     string `json:"userId"`
	CourseID   string `json:"courseId"`
	CurrentDay int    `json:"currentDay"`
}

// questionView is the client-facing question shape. The correct key and
// explanation stay server-side until the quiz is evaluated.
type questionView struct {
	ID         string            `json:"id"`
	Text       string            `json:"text"`
	Options    map[string]string `json:"options"`
	Topic      string            `json:"topic"`
	Difficulty domain.Difficulty `json:"difficulty"`
}

type quizPayload struct {
	QuizID    string         `json:"quizId"`
	Day       int            `json:"day"`
	Questions []questionView `json:"questions"`
}

type progressPayload struct {
	CurrentDay  int                       `json:"currentDay"`
	DailyScores []float64                 `json:"dailyScores"`
	WrongQueued int                       `json:"wrongQueued"`
	Mastery     map[string]domain.Mastery `json:"mastery"`
}

// ServeWS upgrades the connection and dispatches course commands.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	courseID := r.URL.Query().Get("courseId")
	if userID == "" || courseID == "" {
		http.Error(w, "missing userId or courseId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	unregister := h.hub.register(userID, send)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, send, inbound, userID, courseID)
	}

	unregister()
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, send chan outboundMessage[any], inbound inboundMessage, userID, courseID string) {
	ctx := r.Context()

	switch inbound.Type {
	case "enroll":
		state, err := h.service.Enroll(ctx, userID, courseID)
		if err != nil {
			send <- errorMessage(err)
			return
		}
		send <- outboundMessage[any]{Type: "enrolled", Payload: enrolledPayload{
			UserID:     state.UserID,
			CourseID:   state.CourseID,
			CurrentDay: state.CurrentDay,
		}}

	case "quiz":
		quiz, err := h.service.DailyQuiz(ctx, userID, courseID)
		if err != nil {
			send <- errorMessage(err)
			return
		}
		send <- outboundMessage[any]{Type: "quiz", Payload: toQuizPayload(quiz)}

	case "answer":
		var sub domain.Submission
		if err := json.Unmarshal(inbound.Payload, &sub); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
			return
		}
		eval, err := h.service.Submit(ctx, userID, courseID, sub)
		if err != nil {
			send <- errorMessage(err)
			return
		}
		send <- outboundMessage[any]{Type: "result", Payload: eval}

	case "progress":
		state, mastery, err := h.service.Progress(ctx, userID, courseID)
		if err != nil {
			send <- errorMessage(err)
			return
		}
		send <- outboundMessage[any]{Type: "progress", Payload: progressPayload{
			CurrentDay:  state.CurrentDay,
			DailyScores: state.DailyScores,
			WrongQueued: len(state.WrongQueue),
			Mastery:     mastery,
		}}

	default:
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
	}
}

func toQuizPayload(quiz domain.DailyQuiz) quizPayload {
	views := make([]questionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		views = append(views, questionView{
			ID:         q.ID,
			Text:       q.Text,
			Options:    q.Options,
			Topic:      q.Topic,
			Difficulty: q.Difficulty,
		})
	}
	return quizPayload{QuizID: quiz.QuizID, Day: quiz.Day, Questions: views}
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
