// Package pgx opens a postgres broker with the pgx driver.
package pgx

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/x4b1/mqbackup/broker/postgres"
)

// Open returns a broker connected with a pool to database connection string with config.
func Open(ctx context.Context, connStr string, opts ...postgres.Option) (*Broker, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	b, err := WithPool(ctx, pool, opts...)
	if err != nil {
		pool.Close()
		return nil, err
	}
	b.pool = pool

	return b, nil
}

// WithPool returns a broker initialised with the given connection pool instance and config.
// The pool is not closed by the broker.
func WithPool(ctx context.Context, pool *pgxpool.Pool, opts ...postgres.Option) (*Broker, error) {
	b, err := postgres.New(ctx, newWrapper(pool), opts...)
	if err != nil {
		return nil, err
	}

	return &Broker{Broker: b}, nil
}

// Broker is the postgres broker using a pgx pool.
type Broker struct {
	*postgres.Broker

	pool *pgxpool.Pool
}

// Close removes the empty auto delete queues and closes the pool opened by Open.
func (b *Broker) Close() error {
	err := b.Broker.Close()
	if b.pool != nil {
		b.pool.Close()
	}

	return err
}
