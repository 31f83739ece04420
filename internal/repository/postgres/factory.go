// Package postgres keeps users and thoughts in PostgreSQL. Reference lists
// are text[] columns and reactions live in a jsonb array on the thought row.
package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baharkarakas/thoughts-backend/internal/models"
	repo "github.com/baharkarakas/thoughts-backend/internal/repository"
)

func NewRepositories(pool *pgxpool.Pool) repo.Repositories {
	return repo.Repositories{
		Users:    &usersRepo{pool},
		Thoughts: &thoughtsRepo{pool},
	}
}

// withTx runs fn inside a single serializable transaction.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// validID reports whether id can be a primary key; anything else can never
// match a row and is treated as not found.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}

const uniqueViolation = "23505"

// dbError turns a driver error into an AppError. notFound is used for
// pgx.ErrNoRows.
func dbError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.NewNotFoundError(notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return models.NewConflictError("username or email already exists", err)
	}
	return models.NewInternalError(err)
}
