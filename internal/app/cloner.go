package app

import (
	"context"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// CopySuffix is appended to the title of every copied quiz.
const CopySuffix = " (copy)"

// Cloner deep-copies a quiz's question/answer tree for a new owner. Image
// assets are referenced, never duplicated; only external URL strings are
// copied as plain strings.
type Cloner struct {
	quizzes QuizRepository
	assets  AssetStore
	limiter RateLimiter
	atomic  Atomic
	now     func() time.Time
	newID   func() uuid.UUID
}

func NewCloner(quizzes QuizRepository, assets AssetStore, limiter RateLimiter, atomic Atomic) *Cloner {
	return &Cloner{
		quizzes: quizzes,
		assets:  assets,
		limiter: limiter,
		atomic:  atomic,
		now:     time.Now,
		newID:   uuid.New,
	}
}

// WithClock is test-only for deterministic timestamps.
func (c *Cloner) WithClock(now func() time.Time) *Cloner {
	c.now = now
	return c
}

// Copy clones the quiz for the acting user. Access is filtered at the query
// level, so an unauthorized quiz is indistinguishable from a missing one.
func (c *Cloner) Copy(ctx context.Context, quizID, actingUser uuid.UUID) (*domain.Quiz, error) {
	allowed, err := c.limiter.Allow(ctx, actingUser)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrThrottled
	}

	src, err := c.quizzes.AccessibleQuiz(ctx, quizID, actingUser)
	if err != nil {
		return nil, err
	}

	now := c.now()
	clone := &domain.Quiz{
		ID:          c.newID(),
		Title:       CopyTitle(src.Title),
		Description: src.Description,
		OwnerID:     actingUser,
		Visibility:  domain.DefaultVisibility,
		Anonymous:   false,
		// The legacy quiz-level cap travels with the content.
		MaxReoccurrences: src.MaxReoccurrences,
		FolderID:         nil,
		Version:          0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	resolved := make(map[uuid.UUID]bool)
	for _, q := range src.Questions {
		// An owned asset reference wins over an external URL; the URL only
		// survives when no asset reference resolves.
		qAsset, qURL := domain.ImageRef(q.Image, c.carryAsset(ctx, q.ImageAssetID, resolved))
		newQ := &domain.Question{
			ID:             c.newID(),
			QuizID:         clone.ID,
			Order:          q.Order,
			Text:           q.Text,
			Image:          qURL,
			ImageAssetID:   qAsset,
			Explanation:    q.Explanation,
			MultipleChoice: q.MultipleChoice,
		}
		for _, a := range q.Answers {
			aAsset, aURL := domain.ImageRef(a.Image, c.carryAsset(ctx, a.ImageAssetID, resolved))
			newQ.Answers = append(newQ.Answers, &domain.Answer{
				ID:           c.newID(),
				QuestionID:   newQ.ID,
				Order:        a.Order,
				Text:         a.Text,
				Image:        aURL,
				ImageAssetID: aAsset,
				Correct:      a.Correct,
			})
		}
		clone.Questions = append(clone.Questions, newQ)
	}

	err = c.atomic.RunInTx(ctx, func(ctx context.Context) error {
		return c.quizzes.CreateQuizTree(ctx, clone)
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// carryAsset keeps a copy-on-write reference to the same asset row when the
// id still resolves, and drops dangling references.
func (c *Cloner) carryAsset(ctx context.Context, assetID *uuid.UUID, resolved map[uuid.UUID]bool) *uuid.UUID {
	if assetID == nil {
		return nil
	}
	ok, cached := resolved[*assetID]
	if !cached {
		exists, err := c.assets.Exists(ctx, *assetID)
		ok = err == nil && exists
		resolved[*assetID] = ok
	}
	if !ok {
		return nil
	}
	id := *assetID
	return &id
}

// CopyTitle appends CopySuffix, truncating the original title (never the
// suffix) so the result stays within MaxTitleLength.
func CopyTitle(title string) string {
	runes := []rune(title)
	room := domain.MaxTitleLength - len([]rune(CopySuffix))
	if len(runes) > room {
		runes = runes[:room]
	}
	return string(runes) + CopySuffix
}
