package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Harness owns the lifecycle of the Postgres test container and pgx pool.
type Harness struct {
	container  *PGContainer
	pool       *pgxpool.Pool
	dropSchema func(context.Context) error
}

// NewHarness boots Postgres (or reuses dsn / STRESS_TEST_PG_DSN) and applies
// the embedded migrations in an isolated schema.
func NewHarness(ctx context.Context, dsn string) (*Harness, error) {
	container, dsn, err := StartPostgres16(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	pool, cleanup, err := ApplyMigrations(ctx, dsn, true)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &Harness{
		container:  container,
		pool:       pool,
		dropSchema: cleanup,
	}, nil
}

// Pool exposes the configured pgx pool.
func (h *Harness) Pool() *pgxpool.Pool {
	return h.pool
}

// Close tears down resources.
func (h *Harness) Close(ctx context.Context) {
	if h.pool != nil {
		h.pool.Close()
	}
	if h.dropSchema != nil {
		_ = h.dropSchema(ctx)
	}
	_ = h.container.Terminate(ctx)
}

// Reset truncates mutable tables to provide a clean slate for next epoch.
func (h *Harness) Reset(ctx context.Context) error {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reset begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "TRUNCATE TABLE notifications, applications, vacancies, users"); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reset commit: %w", err)
	}

	return nil
}
