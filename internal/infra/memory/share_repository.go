package memory

import (
	"context"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// ShareRepository implements app.ShareRepository.
type ShareRepository struct {
	store *Store
}

func NewShareRepository(store *Store) *ShareRepository {
	return &ShareRepository{store: store}
}

func (r *ShareRepository) Create(_ context.Context, share *domain.SharedQuiz) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.shares {
		if existing.QuizID != share.QuizID {
			continue
		}
		if share.UserID != nil && existing.UserID != nil && *existing.UserID == *share.UserID {
			return domain.ErrAlreadyShared
		}
		if share.GroupID != nil && existing.GroupID != nil && *existing.GroupID == *share.GroupID {
			return domain.ErrAlreadyShared
		}
	}
	r.store.shares = append(r.store.shares, share)
	return nil
}

func (r *ShareRepository) GroupMembers(_ context.Context, groupID uuid.UUID) ([]uuid.UUID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]uuid.UUID(nil), r.store.groups[groupID]...), nil
}
