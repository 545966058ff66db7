package postgres

import (
	"context"
	"fmt"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProgressReader computes live correct/wrong counts with a single aggregate
// over answer_records. It runs on its own pgx pool: the counts are a pure
// read model and never need to join a write transaction.
type ProgressReader struct {
	pool *pgxpool.Pool
}

func NewProgressReader(pool *pgxpool.Pool) *ProgressReader {
	return &ProgressReader{pool: pool}
}

func (r *ProgressReader) SessionCounts(ctx context.Context, sessionID uuid.UUID) (app.ProgressCounts, error) {
	var counts app.ProgressCounts
	err := r.pool.QueryRow(ctx, `
		SELECT
			count(*) FILTER (WHERE was_correct),
			count(*) FILTER (WHERE NOT was_correct)
		FROM answer_records
		WHERE session_id = $1 AND NOT skipped_due_to_limit
	`, sessionID).Scan(&counts.Correct, &counts.Wrong)
	if err != nil {
		return app.ProgressCounts{}, fmt.Errorf("session counts: %w", err)
	}
	return counts, nil
}
