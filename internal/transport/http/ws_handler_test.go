package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learning-challenge-service/internal/app"
	"learning-challenge-service/internal/curriculum"
	"learning-challenge-service/internal/domain"
	"learning-challenge-service/internal/engine"
	"learning-challenge-service/internal/infra/memory"
	"learning-challenge-service/internal/questionbank"
	"github.com/gorilla/websocket"
)

func TestWebSocketDailyFlow(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)
	defer server.Close()

	conn := dial(t, server, "u1", "go-30")
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "enroll"}); err != nil {
		t.Fatalf("write enroll: %v", err)
	}
	_, payload := readNext(conn, t, "enrolled")
	if payload["currentDay"].(float64) != 1 {
		t.Fatalf("expected day 1 on enroll, got %v", payload["currentDay"])
	}

	if err := conn.WriteJSON(map[string]any{"type": "quiz"}); err != nil {
		t.Fatalf("write quiz: %v", err)
	}
	_, payload = readNext(conn, t, "quiz")
	quizID, _ := payload["quizId"].(string)
	questions, _ := payload["questions"].([]any)
	if quizID == "" || len(questions) == 0 {
		t.Fatalf("expected quiz with questions, got %+v", payload)
	}
	if _, leaked := questions[0].(map[string]any)["correctKey"]; leaked {
		t.Fatalf("quiz payload must not expose the correct key")
	}

	answer := map[string]any{
		"type": "answer",
		"payload": map[string]any{
			"quizId":  quizID,
			"answers": map[string]string{},
		},
	}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}
	_, payload = readNext(conn, t, "result")
	if payload["scorePercentage"].(float64) != 0 {
		t.Fatalf("expected 0 score for blank submission, got %v", payload["scorePercentage"])
	}

	if err := conn.WriteJSON(map[string]any{"type": "progress"}); err != nil {
		t.Fatalf("write progress: %v", err)
	}
	_, payload = readNext(conn, t, "progress")
	if payload["currentDay"].(float64) != 2 {
		t.Fatalf("expected day advanced to 2, got %v", payload["currentDay"])
	}
}

func TestWebSocketReminderPush(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)
	defer server.Close()

	conn := dial(t, server, "u2", "go-30")
	defer conn.Close()

	// The read loop registers the session; give it a moment before pushing.
	deadline := time.Now().Add(2 * time.Second)
	for !hub.Notify("u2", "day 1 is waiting") {
		if time.Now().After(deadline) {
			t.Fatalf("reminder was never deliverable")
		}
		time.Sleep(10 * time.Millisecond)
	}

	_, payload := readNext(conn, t, "reminder")
	if payload["message"] != "day 1 is waiting" {
		t.Fatalf("unexpected reminder payload: %+v", payload)
	}
}

func TestWebSocketRejectsMissingParams(t *testing.T) {
	hub := NewHub()
	server := newTestServer(t, hub)
	defer server.Close()

	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	course := curriculum.New("go-30", []string{"syntax"}, 30)
	bank := questionbank.NewStaticBank(map[string][]domain.Question{
		"syntax": {{
			ID:   "q1",
			Text: "Pick B",
			Options: map[string]string{
				"A": "one", "B": "two", "C": "three", "D": "four",
			},
			CorrectKey:  "B",
			Explanation: "two it is",
			Topic:       "syntax",
			Difficulty:  domain.DifficultyBeginner,
		}},
	})
	service := app.NewCourseService(
		memory.NewProgressStore(),
		memory.NewPendingQuizStore(time.Minute),
		bank,
		course,
		engine.New(),
		5,
		nil,
	)
	handler := NewWSHandler(service, hub, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	return httptest.NewServer(mux)
}

func dial(t *testing.T, server *httptest.Server, userID, courseID string) *websocket.Conn {
	t.Helper()
	u := "ws" + server.URL[len("http"):] + "/ws?userId=" + userID + "&courseId=" + courseID
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
