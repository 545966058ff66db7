package postgres

import (
	"context"
	"fmt"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// AttemptRepository implements app.AttemptRepository; answer_records is
// append-only and rows are never updated.
type AttemptRepository struct {
	db *DB
}

func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Append(ctx context.Context, record *domain.AnswerRecord) error {
	if record.SelectedAnswerIDs == nil {
		record.SelectedAnswerIDs = []uuid.UUID{}
	}
	if _, err := r.db.conn(ctx).NewInsert().Model(record).Exec(ctx); err != nil {
		return fmt.Errorf("append answer record: %w", err)
	}
	return nil
}

func (r *AttemptRepository) CountNonSkipped(ctx context.Context, sessionID, questionID uuid.UUID) (int, error) {
	count, err := r.db.conn(ctx).NewSelect().
		Model((*domain.AnswerRecord)(nil)).
		Where("ar.session_id = ?", sessionID).
		Where("ar.question_id = ?", questionID).
		Where("NOT ar.skipped_due_to_limit").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return count, nil
}

func (r *AttemptRepository) BySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.AnswerRecord, error) {
	var records []*domain.AnswerRecord
	err := r.db.conn(ctx).NewSelect().
		Model(&records).
		Where("ar.session_id = ?", sessionID).
		Order("answered_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session records: %w", err)
	}
	return records, nil
}
