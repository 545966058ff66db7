// Package notify implements the outbound notification dispatcher interface.
// The real delivery (email fan-out) happens in an external task queue; this
// side only emits the event.
package notify

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// LogNotifier writes share events to the process log. It stands in for the
// queue-backed dispatcher in single-node deployments.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) QuizShared(_ context.Context, quizID uuid.UUID, recipients []uuid.UUID) {
	log.Printf("quiz %s shared with %d recipient(s)", quizID, len(recipients))
}
