package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deionjtulcidas/ServerlessContactForm/internal/model"
)

const uniqueViolation = "23505"

// PgExecutor is the subset of *pgxpool.Pool the store uses.
type PgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists submissions in the submissions table.
type PostgresStore struct {
	pool PgExecutor
}

// NewPostgresStore returns a PostgresStore using the given pool.
func NewPostgresStore(pool PgExecutor) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert adds sub as a new row. Every value is a bind parameter.
func (r *PostgresStore) Insert(ctx context.Context, sub *model.Submission) error {
	query := `
		INSERT INTO submissions (id, created_at, fname, lname, email, message, source, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.CreatedAt,
		sub.FName,
		sub.LName,
		sub.Email,
		sub.Message,
		sub.Source,
		sub.IP,
		sub.UserAgent,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateID, sub.ID)
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// Delete removes the row with the given id.
func (r *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return nil
}
