package app

import (
	"context"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// ShareTarget names the grantee: exactly one of UserID and GroupID must be set.
type ShareTarget struct {
	UserID    *uuid.UUID
	GroupID   *uuid.UUID
	AllowEdit bool
}

// Sharer grants quiz access and emits a post-commit notification to the
// recipients.
type Sharer struct {
	quizzes  QuizRepository
	shares   ShareRepository
	notifier Notifier
	atomic   Atomic
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewSharer(quizzes QuizRepository, shares ShareRepository, notifier Notifier, atomic Atomic) *Sharer {
	return &Sharer{
		quizzes:  quizzes,
		shares:   shares,
		notifier: notifier,
		atomic:   atomic,
		now:      time.Now,
		newID:    uuid.New,
	}
}

// Share creates an access grant. Only the quiz owner may share; a
// non-owner with read access gets ErrPermissionDenied rather than NotFound.
func (s *Sharer) Share(ctx context.Context, quizID, actingUser uuid.UUID, target ShareTarget) (*domain.SharedQuiz, error) {
	if (target.UserID == nil) == (target.GroupID == nil) {
		return nil, domain.ErrInvalidShareTarget
	}

	quiz, err := s.quizzes.AccessibleQuiz(ctx, quizID, actingUser)
	if err != nil {
		return nil, err
	}
	if quiz.OwnerID != actingUser {
		return nil, domain.ErrPermissionDenied
	}

	share := &domain.SharedQuiz{
		ID:        s.newID(),
		QuizID:    quizID,
		UserID:    target.UserID,
		GroupID:   target.GroupID,
		AllowEdit: target.AllowEdit,
		CreatedAt: s.now(),
	}
	err = s.atomic.RunInTx(ctx, func(ctx context.Context) error {
		return s.shares.Create(ctx, share)
	})
	if err != nil {
		return nil, err
	}

	// Post-commit, fire and forget.
	if s.notifier != nil {
		recipients, err := s.recipients(ctx, target)
		if err == nil && len(recipients) > 0 {
			s.notifier.QuizShared(ctx, quizID, recipients)
		}
	}
	return share, nil
}

func (s *Sharer) recipients(ctx context.Context, target ShareTarget) ([]uuid.UUID, error) {
	if target.UserID != nil {
		return []uuid.UUID{*target.UserID}, nil
	}
	return s.shares.GroupMembers(ctx, *target.GroupID)
}
