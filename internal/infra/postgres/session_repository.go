package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository implements app.SessionRepository. The partial unique
// index quiz_sessions_one_active is the authoritative arbiter of the
// one-active-session invariant; creation inserts under it and re-fetches on
// conflict instead of checking first.
type SessionRepository struct {
	db  *DB
	now func() time.Time
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

func (r *SessionRepository) GetOrCreateActive(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, bool, error) {
	now := r.now()
	session := &domain.QuizSession{
		ID:        uuid.New(),
		QuizID:    quizID,
		UserID:    userID,
		StartedAt: now,
		UpdatedAt: now,
		IsActive:  true,
	}
	res, err := r.db.conn(ctx).NewInsert().
		Model(session).
		On("CONFLICT (quiz_id, user_id) WHERE is_active DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("create session: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 1 {
		return session, true, nil
	}

	existing, err := r.ActiveSession(ctx, quizID, userID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *SessionRepository) ActiveSession(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error) {
	session := new(domain.QuizSession)
	err := r.db.conn(ctx).NewSelect().
		Model(session).
		Where("qs.quiz_id = ?", quizID).
		Where("qs.user_id = ?", userID).
		Where("qs.is_active").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

// Reset archives the active session and creates the replacement in one
// transaction; both effects become visible together or not at all.
func (r *SessionRepository) Reset(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error) {
	var fresh *domain.QuizSession
	err := r.db.RunInTx(ctx, func(ctx context.Context) error {
		now := r.now()
		_, err := r.db.conn(ctx).NewUpdate().
			Model((*domain.QuizSession)(nil)).
			Set("is_active = FALSE").
			Set("ended_at = ?", now).
			Set("updated_at = ?", now).
			Where("quiz_id = ?", quizID).
			Where("user_id = ?", userID).
			Where("is_active").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("archive session: %w", err)
		}

		fresh = &domain.QuizSession{
			ID:        uuid.New(),
			QuizID:    quizID,
			UserID:    userID,
			StartedAt: now,
			UpdatedAt: now,
			IsActive:  true,
		}
		if _, err := r.db.conn(ctx).NewInsert().Model(fresh).Exec(ctx); err != nil {
			return fmt.Errorf("create replacement session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.QuizSession) error {
	session.UpdatedAt = r.now()
	res, err := r.db.conn(ctx).NewUpdate().
		Model(session).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
