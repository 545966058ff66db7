// Package postgres implements the storage ports on bun over Postgres, with a
// pgx pool for the read-side aggregates.
package postgres

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB wraps a bun handle and carries transactions through the context so that
// repository calls made inside RunInTx share one transaction.
type DB struct {
	bun *bun.DB
}

type txKey struct{}

// NewDB opens a bun handle over the pgdriver connector.
func NewDB(dsn string) *DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &DB{bun: bun.NewDB(sqldb, pgdialect.New())}
}

// Wrap adapts an existing bun.DB, used by tests that manage the connection.
func Wrap(bdb *bun.DB) *DB {
	return &DB{bun: bdb}
}

// RunInTx satisfies app.Atomic. Nested calls join the outer transaction.
func (d *DB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return fn(ctx)
	}
	return d.bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the active transaction when inside RunInTx, the pool otherwise.
func (d *DB) conn(ctx context.Context) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return d.bun
}

// Close releases the underlying pool.
func (d *DB) Close() error {
	return d.bun.Close()
}

// Bun exposes the raw handle for migrations and test seeding.
func (d *DB) Bun() *bun.DB {
	return d.bun
}
