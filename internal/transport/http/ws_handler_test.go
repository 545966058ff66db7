package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func TestProgressWebSocketStreamsUpdates(t *testing.T) {
	s := newTestServer(t)
	user := uuid.New()
	quiz := s.seedQuiz(t, user)
	q := quiz.Questions[0]

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	token, err := SignToken(testSecret, user, time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) +
		"/api/quizzes/" + quiz.ID.String() + "/progress/ws"
	header := http.Header{"Authorization": {"Bearer " + token}}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var initial app.ProgressView
	if err := conn.ReadJSON(&initial); err != nil {
		t.Fatalf("read initial snapshot: %v", err)
	}
	if initial.QuizID != quiz.ID || initial.CorrectCount != 0 {
		t.Fatalf("initial snapshot %+v", initial)
	}

	rec := s.do(t, http.MethodPost, "/api/quizzes/"+quiz.ID.String()+"/answers", &user, map[string]any{
		"question_id":      q.ID,
		"selected_answers": []uuid.UUID{q.Answers[0].ID},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("record status %d", rec.Code)
	}

	var updated app.ProgressView
	if err := conn.ReadJSON(&updated); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if updated.CorrectCount != 1 {
		t.Fatalf("updated view %+v, want one correct answer", updated)
	}
}

func TestProgressWebSocketRejectsUnknownQuiz(t *testing.T) {
	s := newTestServer(t)
	user := uuid.New()

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	token, err := SignToken(testSecret, user, time.Minute)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) +
		"/api/quizzes/" + uuid.NewString() + "/progress/ws"
	header := http.Header{"Authorization": {"Bearer " + token}}

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err == nil {
		t.Fatalf("expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("handshake response %+v", resp)
	}
}
