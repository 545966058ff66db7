package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// serveProgressWS streams progress views for the caller's session: one
// snapshot on connect, then a fresh view after every committed answer record.
func (a *API) serveProgressWS(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := a.parseIDs(w, r)
	if !ok {
		return
	}

	// Resolve before upgrading so access failures still get an HTTP status.
	view, err := a.projector.Get(r.Context(), quizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := a.events.Subscribe(quizID, userID)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(view); err != nil {
		return
	}
	for {
		select {
		case <-closed:
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			view, err := a.projector.Get(r.Context(), quizID, userID)
			if err != nil {
				return
			}
			if err := conn.WriteJSON(view); err != nil {
				return
			}
		}
	}
}
