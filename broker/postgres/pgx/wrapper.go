package pgx

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/x4b1/mqbackup/broker/postgres"
)

var _ postgres.Instance = (*wrapper)(nil)

type instance interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func newWrapper(i instance) *wrapper {
	return &wrapper{i}
}

type wrapper struct {
	instance
}

func (w *wrapper) Ping(ctx context.Context) error {
	return w.instance.Ping(ctx)
}

func (w *wrapper) Query(ctx context.Context, sql string, args ...any) (postgres.Rows, error) {
	return w.instance.Query(ctx, sql, args...)
}

func (w *wrapper) QueryRow(ctx context.Context, sql string, args ...any) postgres.Row {
	return rowWrapper{w.instance.QueryRow(ctx, sql, args...)}
}

func (w *wrapper) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := w.instance.Exec(ctx, sql, args...)

	return err
}

type rowWrapper struct {
	pgx.Row
}

func (r rowWrapper) Scan(dest ...any) error {
	err := r.Row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return postgres.ErrNoRows
	}

	return err
}
