package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

func TestRecordAnswerCorrectness(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	q1 := quiz.Questions[0]

	correct := answerIDs(q1, true)
	result, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: correct,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.Skipped {
		t.Fatalf("expected accepted attempt")
	}
	if !result.Record.WasCorrect {
		t.Fatalf("exact correct selection must be correct")
	}
	if result.AttemptsUsed != 1 {
		t.Fatalf("expected 1 attempt used, got %d", result.AttemptsUsed)
	}
	if result.Remaining != app.UnlimitedRemaining {
		t.Fatalf("limit 0 must report unlimited, got %d", result.Remaining)
	}

	// Selecting the correct answer plus a wrong one is not correct: equality
	// is exact-set, not subset.
	superset := append(append([]uuid.UUID{}, correct...), answerIDs(q1, false)...)
	result, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: superset,
	})
	if err != nil {
		t.Fatalf("record superset: %v", err)
	}
	if result.Record.WasCorrect {
		t.Fatalf("superset of correct answers must be wrong")
	}
}

func TestRecordAnswerUnlimited(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	q1 := quiz.Questions[0]
	e.settings.SetLimit(user, 0)

	for i := 0; i < 10; i++ {
		result, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
			QuestionID:        q1.ID,
			SelectedAnswerIDs: answerIDs(q1, true),
		})
		if err != nil {
			t.Fatalf("submission %d: %v", i+1, err)
		}
		if result.Skipped {
			t.Fatalf("submission %d skipped under unlimited setting", i+1)
		}
		if result.AttemptsUsed != i+1 {
			t.Fatalf("submission %d: attempts used %d", i+1, result.AttemptsUsed)
		}
	}
}

func TestRecordAnswerRepetitionLimit(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	q1 := quiz.Questions[0]
	q2 := quiz.Questions[1]
	e.settings.SetLimit(user, 2)

	for i := 0; i < 2; i++ {
		result, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
			QuestionID:        q1.ID,
			SelectedAnswerIDs: answerIDs(q1, true),
		})
		if err != nil {
			t.Fatalf("submission %d: %v", i+1, err)
		}
		if result.Skipped {
			t.Fatalf("submission %d within limit was skipped", i+1)
		}
	}

	// Third and fourth submissions skip, regardless of correctness, and the
	// attempts-used counter freezes: skip records do not count.
	for i := 0; i < 2; i++ {
		result, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
			QuestionID:        q1.ID,
			SelectedAnswerIDs: answerIDs(q1, true),
		})
		if err != nil {
			t.Fatalf("over-limit submission: %v", err)
		}
		if !result.Skipped {
			t.Fatalf("expected skip after limit exhausted")
		}
		if result.AttemptsUsed != 2 {
			t.Fatalf("skip must not grow attempts used, got %d", result.AttemptsUsed)
		}
		if result.Record.SkippedDueToLimit != true || result.Record.WasCorrect || len(result.Record.SelectedAnswerIDs) != 0 {
			t.Fatalf("malformed skip record: %+v", result.Record)
		}
		if result.NextQuestionID == nil || *result.NextQuestionID != q2.ID {
			t.Fatalf("expected next unanswered question %s, got %v", q2.ID, result.NextQuestionID)
		}
	}

	// A different question keeps its own counter.
	result, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q2.ID,
		SelectedAnswerIDs: answerIDs(q2, true),
	})
	if err != nil {
		t.Fatalf("other question: %v", err)
	}
	if result.Skipped {
		t.Fatalf("exhausting one question must not affect another")
	}
}

func TestRecordAnswerCountersAreIndependentAcrossUsersAndSessions(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := uuid.New()
	other := uuid.New()
	quiz := e.seedQuiz(owner)
	quiz.Visibility = domain.VisibilityPublic
	q1 := quiz.Questions[0]
	e.settings.SetLimit(owner, 1)
	e.settings.SetLimit(other, 1)

	if _, err := e.recorder.RecordAnswer(ctx, quiz.ID, owner, app.RecordInput{QuestionID: q1.ID}); err != nil {
		t.Fatalf("owner submission: %v", err)
	}
	result, err := e.recorder.RecordAnswer(ctx, quiz.ID, owner, app.RecordInput{QuestionID: q1.ID})
	if err != nil {
		t.Fatalf("owner second submission: %v", err)
	}
	if !result.Skipped {
		t.Fatalf("owner should be at the limit")
	}

	// Another user starts from zero.
	result, err = e.recorder.RecordAnswer(ctx, quiz.ID, other, app.RecordInput{QuestionID: q1.ID})
	if err != nil {
		t.Fatalf("other user submission: %v", err)
	}
	if result.Skipped {
		t.Fatalf("limits must be scoped per user session")
	}

	// A reset gives the owner a fresh counter.
	if _, err := e.projector.Reset(ctx, quiz.ID, owner); err != nil {
		t.Fatalf("reset: %v", err)
	}
	result, err = e.recorder.RecordAnswer(ctx, quiz.ID, owner, app.RecordInput{QuestionID: q1.ID})
	if err != nil {
		t.Fatalf("post-reset submission: %v", err)
	}
	if result.Skipped {
		t.Fatalf("reset must zero repetition usage")
	}
}

func TestRecordAnswerValidatesSelection(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	q1 := quiz.Questions[0]

	_, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("expected invalid selection, got %v", err)
	}

	// An answer id from another question is just as invalid.
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: []uuid.UUID{quiz.Questions[1].Answers[0].ID},
	})
	if !errors.Is(err, domain.ErrInvalidSelection) {
		t.Fatalf("expected invalid selection, got %v", err)
	}

	// Validation failures leave no trace: no record, no session movement.
	session, _, err := e.sessions.GetOrCreateActive(ctx, quiz.ID, user)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	records, err := e.attempts.BySession(ctx, session.ID)
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected zero records after failed validation, got %d", len(records))
	}
}

func TestRecordAnswerQuestionMustBelongToQuiz(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	otherQuiz := e.seedQuiz(user)

	_, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID: otherQuiz.Questions[0].ID,
	})
	if !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected question not found, got %v", err)
	}
}

func TestRecordAnswerInaccessibleQuizLooksMissing(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	owner := uuid.New()
	stranger := uuid.New()
	quiz := e.seedQuiz(owner)

	_, err := e.recorder.RecordAnswer(ctx, quiz.ID, stranger, app.RecordInput{
		QuestionID: quiz.Questions[0].ID,
	})
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found for stranger, got %v", err)
	}
}

func TestRecordAnswerStudyTimeThreeWay(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	q1 := quiz.Questions[0]

	// Present with value: replaces.
	_, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
		StudyTime:         domain.SomeOf(120.0),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	session, err := e.sessions.ActiveSession(ctx, quiz.ID, user)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.StudyTimeSeconds != 120 {
		t.Fatalf("expected study time 120, got %v", session.StudyTimeSeconds)
	}

	// Replaced, not accumulated: the caller sends cumulative totals.
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
		StudyTime:         domain.SomeOf(90.0),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	session, _ = e.sessions.ActiveSession(ctx, quiz.ID, user)
	if session.StudyTimeSeconds != 90 {
		t.Fatalf("study time must be replaced, got %v", session.StudyTimeSeconds)
	}

	// Absent: untouched.
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	session, _ = e.sessions.ActiveSession(ctx, quiz.ID, user)
	if session.StudyTimeSeconds != 90 {
		t.Fatalf("absent study time must leave value, got %v", session.StudyTimeSeconds)
	}

	// Explicit null: cleared.
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
		StudyTime:         domain.NullOf[float64](),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	session, _ = e.sessions.ActiveSession(ctx, quiz.ID, user)
	if session.StudyTimeSeconds != 0 {
		t.Fatalf("null study time must clear, got %v", session.StudyTimeSeconds)
	}

	// Negative: rejected, nothing written.
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
		StudyTime:         domain.SomeOf(-5.0),
	})
	if !errors.Is(err, domain.ErrInvalidStudyTime) {
		t.Fatalf("expected invalid study time, got %v", err)
	}
}

func TestRecordAnswerNextQuestionThreeWay(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	q1 := quiz.Questions[0]
	q2 := quiz.Questions[1]

	_, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
		NextQuestionID:    domain.SomeOf(q2.ID),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	session, _ := e.sessions.ActiveSession(ctx, quiz.ID, user)
	if session.CurrentQuestionID == nil || *session.CurrentQuestionID != q2.ID {
		t.Fatalf("expected cursor at q2, got %v", session.CurrentQuestionID)
	}

	// Absent leaves the cursor.
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	session, _ = e.sessions.ActiveSession(ctx, quiz.ID, user)
	if session.CurrentQuestionID == nil || *session.CurrentQuestionID != q2.ID {
		t.Fatalf("absent next question must not move cursor, got %v", session.CurrentQuestionID)
	}

	// Null clears it.
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
		NextQuestionID:    domain.NullOf[uuid.UUID](),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	session, _ = e.sessions.ActiveSession(ctx, quiz.ID, user)
	if session.CurrentQuestionID != nil {
		t.Fatalf("null next question must clear cursor, got %v", session.CurrentQuestionID)
	}

	// A question from another quiz is invalid input.
	foreign := e.seedQuiz(user)
	_, err = e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
		NextQuestionID:    domain.SomeOf(foreign.Questions[0].ID),
	})
	if !errors.Is(err, domain.ErrInvalidNextQuestion) {
		t.Fatalf("expected invalid next question, got %v", err)
	}
}

func TestRecordAnswerLegacyRejectsAtQuizCap(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	user := uuid.New()
	quiz := e.seedQuiz(user)
	quiz.MaxReoccurrences = 1
	q1 := quiz.Questions[0]

	// The user-level setting is unlimited; the legacy endpoint must ignore it
	// and follow the quiz-level cap.
	e.settings.SetLimit(user, 0)

	if _, err := e.recorder.RecordAnswerLegacy(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
	}); err != nil {
		t.Fatalf("first legacy submission: %v", err)
	}

	_, err := e.recorder.RecordAnswerLegacy(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
	})
	if !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("expected limit exceeded, got %v", err)
	}

	// The rejection creates no record.
	session, _ := e.sessions.ActiveSession(ctx, quiz.ID, user)
	records, _ := e.attempts.BySession(ctx, session.ID)
	if len(records) != 1 {
		t.Fatalf("expected a single record, got %d", len(records))
	}

	// The current generation is driven by the user-level setting instead and
	// keeps accepting.
	result, err := e.recorder.RecordAnswer(ctx, quiz.ID, user, app.RecordInput{
		QuestionID:        q1.ID,
		SelectedAnswerIDs: answerIDs(q1, true),
	})
	if err != nil {
		t.Fatalf("current-generation submission: %v", err)
	}
	if result.Skipped {
		t.Fatalf("user-level unlimited setting must accept")
	}
}
