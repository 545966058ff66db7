package app

import (
	"context"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// ProgressView is the current read model for a session.
type ProgressView struct {
	SessionID         uuid.UUID  `json:"sessionId"`
	QuizID            uuid.UUID  `json:"quizId"`
	UserID            uuid.UUID  `json:"userId"`
	StartedAt         time.Time  `json:"startedAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	IsActive          bool       `json:"isActive"`
	StudyTimeSeconds  float64    `json:"studyTimeSeconds"`
	CurrentQuestionID *uuid.UUID `json:"currentQuestionId,omitempty"`
	CorrectCount      int        `json:"correctCount"`
	WrongCount        int        `json:"wrongCount"`
}

// LegacyProgressView serves the older response shape under its historical
// field names. It is computed from the same session and record log, not from
// a separate storage path.
type LegacyProgressView struct {
	CurrentQuestion     *uuid.UUID `json:"current_question"`
	CorrectAnswersCount int        `json:"correct_answers_count"`
	WrongAnswersCount   int        `json:"wrong_answers_count"`
	StudyTime           float64    `json:"study_time"`
	LastActivity        time.Time  `json:"last_activity"`
}

// Projector is the read side over sessions and the attempt log. Counts are
// computed live on every call.
type Projector struct {
	sessions SessionRepository
	reader   ProgressReader
	quizzes  QuizRepository
}

func NewProjector(sessions SessionRepository, reader ProgressReader, quizzes QuizRepository) *Projector {
	return &Projector{sessions: sessions, reader: reader, quizzes: quizzes}
}

// Get returns the progress view for (quiz, user), creating the session on
// first touch.
func (p *Projector) Get(ctx context.Context, quizID, userID uuid.UUID) (*ProgressView, error) {
	if _, err := p.quizzes.AccessibleQuiz(ctx, quizID, userID); err != nil {
		return nil, err
	}
	session, _, err := p.sessions.GetOrCreateActive(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	return p.view(ctx, session)
}

// Legacy returns the same data under the older field names.
func (p *Projector) Legacy(ctx context.Context, quizID, userID uuid.UUID) (*LegacyProgressView, error) {
	view, err := p.Get(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	return &LegacyProgressView{
		CurrentQuestion:     view.CurrentQuestionID,
		CorrectAnswersCount: view.CorrectCount,
		WrongAnswersCount:   view.WrongCount,
		StudyTime:           view.StudyTimeSeconds,
		LastActivity:        view.UpdatedAt,
	}, nil
}

// Session returns the raw active session, creating it on first touch.
func (p *Projector) Session(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error) {
	if _, err := p.quizzes.AccessibleQuiz(ctx, quizID, userID); err != nil {
		return nil, err
	}
	session, _, err := p.sessions.GetOrCreateActive(ctx, quizID, userID)
	return session, err
}

// Reset archives the active session and returns the fresh replacement. The
// archived row keeps its records for analytics; repetition counters start
// from zero because they are keyed by session.
func (p *Projector) Reset(ctx context.Context, quizID, userID uuid.UUID) (*domain.QuizSession, error) {
	if _, err := p.quizzes.AccessibleQuiz(ctx, quizID, userID); err != nil {
		return nil, err
	}
	return p.sessions.Reset(ctx, quizID, userID)
}

func (p *Projector) view(ctx context.Context, session *domain.QuizSession) (*ProgressView, error) {
	counts, err := p.reader.SessionCounts(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	return &ProgressView{
		SessionID:         session.ID,
		QuizID:            session.QuizID,
		UserID:            session.UserID,
		StartedAt:         session.StartedAt,
		UpdatedAt:         session.UpdatedAt,
		IsActive:          session.IsActive,
		StudyTimeSeconds:  session.StudyTimeSeconds,
		CurrentQuestionID: session.CurrentQuestionID,
		CorrectCount:      counts.Correct,
		WrongCount:        counts.Wrong,
	}, nil
}
