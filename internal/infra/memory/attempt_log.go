package memory

import (
	"context"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// AttemptLog implements app.AttemptRepository and app.ProgressReader over the
// shared store's append-only record slice.
type AttemptLog struct {
	store *Store
}

func NewAttemptLog(store *Store) *AttemptLog {
	return &AttemptLog{store: store}
}

func (l *AttemptLog) Append(_ context.Context, record *domain.AnswerRecord) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	l.store.records = append(l.store.records, record)
	return nil
}

func (l *AttemptLog) CountNonSkipped(_ context.Context, sessionID, questionID uuid.UUID) (int, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	count := 0
	for _, rec := range l.store.records {
		if rec.SessionID == sessionID && rec.QuestionID == questionID && !rec.SkippedDueToLimit {
			count++
		}
	}
	return count, nil
}

func (l *AttemptLog) BySession(_ context.Context, sessionID uuid.UUID) ([]*domain.AnswerRecord, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	var out []*domain.AnswerRecord
	for _, rec := range l.store.records {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (l *AttemptLog) SessionCounts(_ context.Context, sessionID uuid.UUID) (app.ProgressCounts, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	var counts app.ProgressCounts
	for _, rec := range l.store.records {
		if rec.SessionID != sessionID || rec.SkippedDueToLimit {
			continue
		}
		if rec.WasCorrect {
			counts.Correct++
		} else {
			counts.Wrong++
		}
	}
	return counts, nil
}
