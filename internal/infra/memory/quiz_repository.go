package memory

import (
	"context"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// QuizRepository implements app.QuizRepository with the same query-level
// access filtering the Postgres repository applies: inaccessible quizzes look
// exactly like missing ones.
type QuizRepository struct {
	store *Store
}

func NewQuizRepository(store *Store) *QuizRepository {
	return &QuizRepository{store: store}
}

func (r *QuizRepository) AccessibleQuiz(_ context.Context, quizID, userID uuid.UUID) (*domain.Quiz, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	quiz, ok := r.store.quizzes[quizID]
	if !ok || !r.accessibleLocked(quiz, userID) {
		return nil, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (r *QuizRepository) CreateQuizTree(_ context.Context, quiz *domain.Quiz) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.quizzes[quiz.ID] = quiz
	return nil
}

func (r *QuizRepository) accessibleLocked(quiz *domain.Quiz, userID uuid.UUID) bool {
	if quiz.OwnerID == userID {
		return true
	}
	if quiz.Visibility == domain.VisibilityPublic || quiz.Visibility == domain.VisibilityUnlisted {
		return true
	}
	for _, share := range r.store.shares {
		if share.QuizID != quiz.ID {
			continue
		}
		if share.UserID != nil && *share.UserID == userID {
			return true
		}
		if share.GroupID != nil {
			for _, member := range r.store.groups[*share.GroupID] {
				if member == userID {
					return true
				}
			}
		}
	}
	return false
}
