package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// QuizRepository implements app.QuizRepository. Access is filtered inside the
// query, so callers cannot distinguish a quiz they may not see from one that
// does not exist.
type QuizRepository struct {
	db *DB
}

func NewQuizRepository(db *DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) AccessibleQuiz(ctx context.Context, quizID, userID uuid.UUID) (*domain.Quiz, error) {
	quiz := new(domain.Quiz)
	err := r.db.conn(ctx).NewSelect().
		Model(quiz).
		Relation("Questions", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("question_order ASC")
		}).
		Relation("Questions.Answers", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("answer_order ASC")
		}).
		Where("q.id = ?", quizID).
		WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
			return g.
				Where("q.owner_id = ?", userID).
				WhereOr("q.visibility IN (?)", bun.In([]domain.Visibility{domain.VisibilityUnlisted, domain.VisibilityPublic})).
				WhereOr(`EXISTS (
					SELECT 1 FROM shared_quizzes sq
					WHERE sq.quiz_id = q.id
					  AND (sq.user_id = ? OR sq.group_id IN (
						SELECT gm.group_id FROM group_members gm WHERE gm.user_id = ?
					  ))
				)`, userID, userID)
		}).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrQuizNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	return quiz, nil
}

// CreateQuizTree inserts the quiz, then all questions in one statement and
// all answers in another; large quizzes must not degrade into per-row round
// trips.
func (r *QuizRepository) CreateQuizTree(ctx context.Context, quiz *domain.Quiz) error {
	return r.db.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := r.db.conn(ctx).NewInsert().Model(quiz).Exec(ctx); err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}

		var questions []*domain.Question
		var answers []*domain.Answer
		for _, q := range quiz.Questions {
			questions = append(questions, q)
			answers = append(answers, q.Answers...)
		}
		if len(questions) > 0 {
			if _, err := r.db.conn(ctx).NewInsert().Model(&questions).Exec(ctx); err != nil {
				return fmt.Errorf("insert questions: %w", err)
			}
		}
		if len(answers) > 0 {
			if _, err := r.db.conn(ctx).NewInsert().Model(&answers).Exec(ctx); err != nil {
				return fmt.Errorf("insert answers: %w", err)
			}
		}
		return nil
	})
}
