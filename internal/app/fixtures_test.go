package app_test

import (
	"time"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/Solvro/backend-testownik-sub000/internal/infra/memory"
	"github.com/google/uuid"
)

// env bundles the memory-backed wiring the app tests run against.
type env struct {
	store     *memory.Store
	sessions  *memory.SessionRepository
	attempts  *memory.AttemptLog
	quizzes   *memory.QuizRepository
	settings  *memory.StaticSettings
	limiter   *memory.RateLimiter
	recorder  *app.Recorder
	projector *app.Projector
	cloner    *app.Cloner
}

func newEnv() *env {
	store := memory.NewStore()
	attempts := memory.NewAttemptLog(store)
	sessions := memory.NewSessionRepository(store)
	quizzes := memory.NewQuizRepository(store)
	settings := memory.NewStaticSettings(0)
	limiter := memory.NewRateLimiter(5, time.Hour)

	return &env{
		store:     store,
		sessions:  sessions,
		attempts:  attempts,
		quizzes:   quizzes,
		settings:  settings,
		limiter:   limiter,
		recorder:  app.NewRecorder(sessions, quizzes, attempts, settings, store),
		projector: app.NewProjector(sessions, attempts, quizzes),
		cloner:    app.NewCloner(quizzes, store, limiter, store),
	}
}

// seedQuiz builds a two-question quiz: question 1 has answers A (correct) and
// B; question 2 has answers C, D (correct) and E.
func (e *env) seedQuiz(owner uuid.UUID) *domain.Quiz {
	quiz := &domain.Quiz{
		ID:      uuid.New(),
		Title:   "Networks 101",
		OwnerID: owner,
	}
	q1 := &domain.Question{
		ID:     uuid.New(),
		QuizID: quiz.ID,
		Order:  1,
		Text:   "What does TCP stand for?",
	}
	q1.Answers = []*domain.Answer{
		{ID: uuid.New(), QuestionID: q1.ID, Order: 1, Text: "Transmission Control Protocol", Correct: true},
		{ID: uuid.New(), QuestionID: q1.ID, Order: 2, Text: "Total Connection Policy"},
	}
	q2 := &domain.Question{
		ID:             uuid.New(),
		QuizID:         quiz.ID,
		Order:          2,
		Text:           "Which layer does IP live on?",
		MultipleChoice: false,
	}
	q2.Answers = []*domain.Answer{
		{ID: uuid.New(), QuestionID: q2.ID, Order: 1, Text: "Link"},
		{ID: uuid.New(), QuestionID: q2.ID, Order: 2, Text: "Network", Correct: true},
		{ID: uuid.New(), QuestionID: q2.ID, Order: 3, Text: "Session"},
	}
	quiz.Questions = []*domain.Question{q1, q2}
	e.store.SeedQuiz(quiz)
	return quiz
}

// answerIDs returns the answer ids of a question matching the correctness
// flag.
func answerIDs(q *domain.Question, correct bool) []uuid.UUID {
	var out []uuid.UUID
	for _, a := range q.Answers {
		if a.Correct == correct {
			out = append(out, a.ID)
		}
	}
	return out
}
