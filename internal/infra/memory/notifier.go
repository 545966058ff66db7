package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// SharedNotification is one recorded "quiz shared" event.
type SharedNotification struct {
	QuizID     uuid.UUID
	Recipients []uuid.UUID
}

// RecordingNotifier captures notifications for assertions in tests.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []SharedNotification
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) QuizShared(_ context.Context, quizID uuid.UUID, recipients []uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, SharedNotification{
		QuizID:     quizID,
		Recipients: append([]uuid.UUID(nil), recipients...),
	})
}

// Notifications returns a snapshot of recorded events.
func (n *RecordingNotifier) Notifications() []SharedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SharedNotification(nil), n.Sent...)
}
