package memory

import (
	"context"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository implements app.SessionRepository on the shared store. All
// mutations happen under one mutex, which plays the role the partial unique
// index plays in Postgres.
type SessionRepository struct {
	store *Store
	now   func() time.Time
}

func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store, now: time.Now}
}

// WithClock is test-only for deterministic timestamps.
func (r *SessionRepository) WithClock(now func() time.Time) *SessionRepository {
	r.now = now
	return r
}

func (r *SessionRepository) GetOrCreateActive(_ context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if session := r.activeLocked(quizID, userID); session != nil {
		return session, false, nil
	}
	session := r.newSessionLocked(quizID, userID)
	return session, true, nil
}

func (r *SessionRepository) ActiveSession(_ context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if session := r.activeLocked(quizID, userID); session != nil {
		return session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *SessionRepository) Reset(_ context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.now()
	if old := r.activeLocked(quizID, userID); old != nil {
		old.IsActive = false
		ended := now
		old.EndedAt = &ended
		old.UpdatedAt = now
	}
	return r.newSessionLocked(quizID, userID), nil
}

func (r *SessionRepository) Update(_ context.Context, session *domain.QuizSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.sessions[session.ID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	*stored = *session
	stored.UpdatedAt = r.now()
	session.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *SessionRepository) activeLocked(quizID, userID uuid.UUID) *domain.QuizSession {
	for _, s := range r.store.sessions {
		if s.QuizID == quizID && s.UserID == userID && s.IsActive {
			return s
		}
	}
	return nil
}

func (r *SessionRepository) newSessionLocked(quizID, userID uuid.UUID) *domain.QuizSession {
	now := r.now()
	session := &domain.QuizSession{
		ID:        uuid.New(),
		QuizID:    quizID,
		UserID:    userID,
		StartedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}
	r.store.sessions[session.ID] = session
	return session
}
