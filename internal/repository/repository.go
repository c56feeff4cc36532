package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

// querier is the subset of *pgxpool.Pool the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// dbFor returns pool, or a querier failing every call with
// apperrors.ErrStoreNotConfigured when the API runs without a database.
func dbFor(pool *pgxpool.Pool) querier {
	if pool == nil {
		return unconfiguredDB{}
	}
	return pool
}

type unconfiguredDB struct{}

func (unconfiguredDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, apperrors.ErrStoreNotConfigured
}

func (unconfiguredDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, apperrors.ErrStoreNotConfigured
}

func (unconfiguredDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: apperrors.ErrStoreNotConfigured}
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// validID reports whether id can be compared against a UUID column. Malformed
// ids are answered with pgx.ErrNoRows so they surface as NOT_FOUND.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFound() error {
	return pgx.ErrNoRows
}
