package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ProgressEvent signals that a session's progress changed.
type ProgressEvent struct {
	QuizID uuid.UUID `json:"quizId"`
	UserID uuid.UUID `json:"userId"`
	At     time.Time `json:"at"`
}

type progressKey struct {
	quizID uuid.UUID
	userID uuid.UUID
}

// ProgressBroadcaster fans progress events out to in-process subscribers,
// typically websocket connections watching a session.
type ProgressBroadcaster struct {
	mu   sync.Mutex
	subs map[progressKey]map[chan ProgressEvent]struct{}
}

func NewProgressBroadcaster() *ProgressBroadcaster {
	return &ProgressBroadcaster{
		subs: make(map[progressKey]map[chan ProgressEvent]struct{}),
	}
}

// Subscribe returns a channel receiving events for (quiz, user). The caller
// must invoke the returned cancel function to avoid leaks.
func (b *ProgressBroadcaster) Subscribe(quizID, userID uuid.UUID) (<-chan ProgressEvent, func()) {
	key := progressKey{quizID: quizID, userID: userID}
	ch := make(chan ProgressEvent, 8)

	b.mu.Lock()
	if b.subs[key] == nil {
		b.subs[key] = make(map[chan ProgressEvent]struct{})
	}
	b.subs[key][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[key]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, key)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber, dropping the oldest queued
// event for a slow consumer instead of blocking the publisher.
func (b *ProgressBroadcaster) Publish(ev ProgressEvent) {
	key := progressKey{quizID: ev.QuizID, userID: ev.UserID}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[key] {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}
