package app

import (
	"context"
	"sort"
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// Recorder implements the answer-recording state machine: it resolves the
// active session, validates the submission against the question's live answer
// set, applies the repetition policy and persists an immutable answer record
// together with any session mutations in one transaction.
type Recorder struct {
	sessions SessionRepository
	quizzes  QuizRepository
	attempts AttemptRepository
	settings SettingsProvider
	atomic   Atomic
	events   *ProgressBroadcaster
	now      func() time.Time
	newID    func() uuid.UUID
}

func NewRecorder(sessions SessionRepository, quizzes QuizRepository, attempts AttemptRepository, settings SettingsProvider, atomic Atomic) *Recorder {
	return &Recorder{
		sessions: sessions,
		quizzes:  quizzes,
		attempts: attempts,
		settings: settings,
		atomic:   atomic,
		now:      time.Now,
		newID:    uuid.New,
	}
}

// WithBroadcaster makes the recorder publish a progress event after each
// committed record.
func (r *Recorder) WithBroadcaster(b *ProgressBroadcaster) *Recorder {
	r.events = b
	return r
}

// WithClock is test-only for deterministic timestamps.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

// RecordInput carries one answer submission. StudyTime and NextQuestionID are
// three-way: absent leaves the session untouched, null clears the field, a
// value replaces it.
type RecordInput struct {
	QuestionID        uuid.UUID
	SelectedAnswerIDs []uuid.UUID
	StudyTime         domain.Optional[float64]
	NextQuestionID    domain.Optional[uuid.UUID]
}

// RecordResult is the structured outcome of a submission.
type RecordResult struct {
	Record       *domain.AnswerRecord
	Skipped      bool
	Limit        int
	AttemptsUsed int
	// Remaining is limit minus attempts used, or UnlimitedRemaining.
	Remaining int
	// NextQuestionID points at the next unanswered question after the current
	// one when a skip could resolve it.
	NextQuestionID *uuid.UUID
}

// RecordAnswer is the current endpoint generation: the limit comes from the
// acting user's profile settings and an exhausted limit is reported as a
// successful skip, not an error.
func (r *Recorder) RecordAnswer(ctx context.Context, quizID, userID uuid.UUID, in RecordInput) (*RecordResult, error) {
	quiz, question, err := r.resolve(ctx, quizID, userID, in)
	if err != nil {
		return nil, err
	}

	limit, err := r.settings.MaxRepetitions(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := r.record(ctx, quiz, question, userID, in, limit, false)
	if err != nil {
		return nil, err
	}
	r.publish(quiz.ID, userID)
	return result, nil
}

// RecordAnswerLegacy is the older endpoint generation: the limit comes from
// the quiz-level max_reoccurrences field and an exhausted limit rejects the
// submission with ErrLimitExceeded, creating no record. The two generations
// are documented, co-existing behaviors and must not be unified.
func (r *Recorder) RecordAnswerLegacy(ctx context.Context, quizID, userID uuid.UUID, in RecordInput) (*RecordResult, error) {
	quiz, question, err := r.resolve(ctx, quizID, userID, in)
	if err != nil {
		return nil, err
	}

	result, err := r.record(ctx, quiz, question, userID, in, quiz.MaxReoccurrences, true)
	if err != nil {
		return nil, err
	}
	r.publish(quiz.ID, userID)
	return result, nil
}

// resolve loads the quiz, locates the question and runs every validation that
// must fail before any write happens.
func (r *Recorder) resolve(ctx context.Context, quizID, userID uuid.UUID, in RecordInput) (*domain.Quiz, *domain.Question, error) {
	quiz, err := r.quizzes.AccessibleQuiz(ctx, quizID, userID)
	if err != nil {
		return nil, nil, err
	}

	question := findQuestion(quiz, in.QuestionID)
	if question == nil {
		return nil, nil, domain.ErrQuestionNotFound
	}

	live := make(map[uuid.UUID]struct{}, len(question.Answers))
	for _, a := range question.Answers {
		live[a.ID] = struct{}{}
	}
	for _, id := range in.SelectedAnswerIDs {
		if _, ok := live[id]; !ok {
			return nil, nil, domain.ErrInvalidSelection
		}
	}

	if in.StudyTime.Set && in.StudyTime.Valid && in.StudyTime.Value < 0 {
		return nil, nil, domain.ErrInvalidStudyTime
	}
	if in.NextQuestionID.Set && in.NextQuestionID.Valid && findQuestion(quiz, in.NextQuestionID.Value) == nil {
		return nil, nil, domain.ErrInvalidNextQuestion
	}
	return quiz, question, nil
}

func (r *Recorder) record(ctx context.Context, quiz *domain.Quiz, question *domain.Question, userID uuid.UUID, in RecordInput, limit int, rejectOnLimit bool) (*RecordResult, error) {
	var result *RecordResult
	err := r.atomic.RunInTx(ctx, func(ctx context.Context) error {
		session, _, err := r.sessions.GetOrCreateActive(ctx, quiz.ID, userID)
		if err != nil {
			return err
		}

		used, err := r.attempts.CountNonSkipped(ctx, session.ID, question.ID)
		if err != nil {
			return err
		}

		now := r.now()
		if Decide(limit, used) == Skip {
			if rejectOnLimit {
				return domain.ErrLimitExceeded
			}
			record := &domain.AnswerRecord{
				ID:                r.newID(),
				SessionID:         session.ID,
				QuestionID:        question.ID,
				AnsweredAt:        now,
				SelectedAnswerIDs: []uuid.UUID{},
				WasCorrect:        false,
				SkippedDueToLimit: true,
			}
			if err := r.attempts.Append(ctx, record); err != nil {
				return err
			}
			next, err := r.nextUnanswered(ctx, quiz, session.ID, question)
			if err != nil {
				return err
			}
			session.UpdatedAt = now
			if err := r.sessions.Update(ctx, session); err != nil {
				return err
			}
			result = &RecordResult{
				Record:         record,
				Skipped:        true,
				Limit:          limit,
				AttemptsUsed:   used,
				Remaining:      0,
				NextQuestionID: next,
			}
			return nil
		}

		record := &domain.AnswerRecord{
			ID:                r.newID(),
			SessionID:         session.ID,
			QuestionID:        question.ID,
			AnsweredAt:        now,
			SelectedAnswerIDs: append([]uuid.UUID(nil), in.SelectedAnswerIDs...),
			WasCorrect:        isExactMatch(question, in.SelectedAnswerIDs),
			SkippedDueToLimit: false,
		}
		if err := r.attempts.Append(ctx, record); err != nil {
			return err
		}

		if in.StudyTime.Set {
			if in.StudyTime.Valid {
				// Replaces, never accumulates: callers send cumulative totals.
				session.StudyTimeSeconds = in.StudyTime.Value
			} else {
				session.StudyTimeSeconds = 0
			}
		}
		if in.NextQuestionID.Set {
			if in.NextQuestionID.Valid {
				id := in.NextQuestionID.Value
				session.CurrentQuestionID = &id
			} else {
				session.CurrentQuestionID = nil
			}
		}
		session.UpdatedAt = now
		if err := r.sessions.Update(ctx, session); err != nil {
			return err
		}

		result = &RecordResult{
			Record:       record,
			Limit:        limit,
			AttemptsUsed: used + 1,
			Remaining:    Remaining(limit, used+1),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// nextUnanswered resolves the first question, in quiz order, after the given
// one that has no non-skipped record in the session yet.
func (r *Recorder) nextUnanswered(ctx context.Context, quiz *domain.Quiz, sessionID uuid.UUID, after *domain.Question) (*uuid.UUID, error) {
	records, err := r.attempts.BySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answered := make(map[uuid.UUID]struct{}, len(records))
	for _, rec := range records {
		if !rec.SkippedDueToLimit {
			answered[rec.QuestionID] = struct{}{}
		}
	}

	ordered := append([]*domain.Question(nil), quiz.Questions...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	for _, q := range ordered {
		if q.Order <= after.Order {
			continue
		}
		if _, ok := answered[q.ID]; !ok {
			id := q.ID
			return &id, nil
		}
	}
	return nil, nil
}

func (r *Recorder) publish(quizID, userID uuid.UUID) {
	if r.events == nil {
		return
	}
	r.events.Publish(ProgressEvent{QuizID: quizID, UserID: userID, At: r.now()})
}

func findQuestion(quiz *domain.Quiz, id uuid.UUID) *domain.Question {
	for _, q := range quiz.Questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// isExactMatch compares the selected id set against the correct id set;
// equality must be exact, a superset of the correct answers is wrong.
func isExactMatch(question *domain.Question, selected []uuid.UUID) bool {
	correct := make(map[uuid.UUID]struct{})
	for _, a := range question.Answers {
		if a.Correct {
			correct[a.ID] = struct{}{}
		}
	}
	chosen := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		chosen[id] = struct{}{}
	}
	if len(chosen) != len(correct) {
		return false
	}
	for id := range chosen {
		if _, ok := correct[id]; !ok {
			return false
		}
	}
	return true
}
