package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun/driver/pgdriver"
)

// ShareRepository implements app.ShareRepository. Target exclusivity is
// backed by a CHECK constraint; duplicate grants surface through the partial
// unique indexes as ErrAlreadyShared.
type ShareRepository struct {
	db *DB
}

func NewShareRepository(db *DB) *ShareRepository {
	return &ShareRepository{db: db}
}

func (r *ShareRepository) Create(ctx context.Context, share *domain.SharedQuiz) error {
	if _, err := r.db.conn(ctx).NewInsert().Model(share).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyShared
		}
		return fmt.Errorf("create share: %w", err)
	}
	return nil
}

func (r *ShareRepository) GroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	var members []uuid.UUID
	err := r.db.conn(ctx).NewSelect().
		Table("group_members").
		Column("user_id").
		Where("group_id = ?", groupID).
		Scan(ctx, &members)
	if err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}
	return members, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}
