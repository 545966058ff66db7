package app

import (
	"context"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// SessionRepository owns the one-active-session-per-(quiz,user) invariant.
// Implementations must make session creation safe under concurrency: insert
// under the unique constraint and re-fetch on conflict, never check-then-act.
type SessionRepository interface {
	// GetOrCreateActive returns the active session for (quiz, user), creating
	// one if none exists. The bool reports whether a new session was created.
	GetOrCreateActive(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, bool, error)
	// ActiveSession returns the active session or domain.ErrSessionNotFound.
	ActiveSession(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error)
	// Reset archives the active session (is_active=false, ended_at set) and
	// creates a fresh one, atomically. Works even when no session exists yet.
	Reset(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error)
	// Update persists session field changes and bumps updated_at.
	Update(ctx context.Context, session *domain.QuizSession) error
}

// QuizRepository loads and stores quiz trees.
type QuizRepository interface {
	// AccessibleQuiz returns the quiz with its question/answer tree if the
	// user may act on it (owner, direct share, group share, or public).
	// Inaccessible and nonexistent are both domain.ErrQuizNotFound.
	AccessibleQuiz(ctx context.Context, quizID, userID uuid.UUID) (*domain.Quiz, error)
	// CreateQuizTree persists a new quiz with all questions and answers using
	// bulk inserts.
	CreateQuizTree(ctx context.Context, quiz *domain.Quiz) error
}

// AttemptRepository is the append-only answer record log.
type AttemptRepository interface {
	Append(ctx context.Context, record *domain.AnswerRecord) error
	// CountNonSkipped counts records for (session, question) where
	// skipped_due_to_limit is false. Skip records never count toward their
	// own trigger condition.
	CountNonSkipped(ctx context.Context, sessionID, questionID uuid.UUID) (int, error)
	BySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.AnswerRecord, error)
}

// ProgressCounts is the live correct/wrong aggregate for one session.
type ProgressCounts struct {
	Correct int
	Wrong   int
}

// ProgressReader is the read side of the attempt log. Counts are always
// computed from the records, never cached.
type ProgressReader interface {
	SessionCounts(ctx context.Context, sessionID uuid.UUID) (ProgressCounts, error)
}

// ShareRepository stores access grants.
type ShareRepository interface {
	// Create persists a grant; a duplicate grant for the same target returns
	// domain.ErrAlreadyShared.
	Create(ctx context.Context, share *domain.SharedQuiz) error
	// GroupMembers resolves a study group to its member user ids.
	GroupMembers(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

// FolderRepository stores the owner-scoped folder tree.
type FolderRepository interface {
	// ByID returns the folder or domain.ErrFolderNotFound; folders are only
	// visible to their owner.
	ByID(ctx context.Context, ownerID, folderID uuid.UUID) (*domain.Folder, error)
	// Archive returns the owner's archive folder, creating it on first use.
	Archive(ctx context.Context, ownerID uuid.UUID) (*domain.Folder, error)
	Create(ctx context.Context, folder *domain.Folder) error
	Update(ctx context.Context, folder *domain.Folder) error
	Delete(ctx context.Context, ownerID, folderID uuid.UUID) error
}

// Atomic runs fn inside a single database transaction; both the answer record
// write and the session mutations of one operation share a boundary so partial
// writes are never observable.
type Atomic interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SettingsProvider supplies the per-user repetition cap from the profile
// service. Zero means unlimited.
type SettingsProvider interface {
	MaxRepetitions(ctx context.Context, userID uuid.UUID) (int, error)
}

// AssetStore answers whether an image asset id resolves to a usable
// reference. The core never reads image bytes.
type AssetStore interface {
	Exists(ctx context.Context, assetID uuid.UUID) (bool, error)
}

// Notifier emits fire-and-forget events after commit.
type Notifier interface {
	QuizShared(ctx context.Context, quizID uuid.UUID, recipients []uuid.UUID)
}

// RateLimiter guards the copy operation with a small per-user quota.
type RateLimiter interface {
	Allow(ctx context.Context, userID uuid.UUID) (bool, error)
}
