package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	*pgxpool.Pool
}

// Options tunes the pool. Zero values fall back to the defaults below.
type Options struct {
	MaxConns   int32
	MinConns   int32
	LogQueries bool
}

func NewPostgreSQLDB(dsn string, opts ...Options) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	if opt.MaxConns > 0 {
		config.MaxConns = opt.MaxConns
	}
	if opt.MinConns > 0 && opt.MinConns <= config.MaxConns {
		config.MinConns = opt.MinConns
	}
	if opt.LogQueries {
		config.ConnConfig.Tracer = &QueryLogger{}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return db.Pool.Begin(ctx)
}

type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UniqueViolation is the SQLSTATE raised when a unique index rejects a row.
const UniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique index, optionally
// restricted to the named constraints.
func IsUniqueViolation(err error, constraints ...string) bool {
	pgErr, ok := asPgError(err)
	if !ok || pgErr.Code != UniqueViolation {
		return false
	}
	if len(constraints) == 0 {
		return true
	}
	for _, c := range constraints {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}

// ForeignKeyViolation is the SQLSTATE raised when a referenced row is missing.
const ForeignKeyViolation = "23503"

func IsForeignKeyViolation(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == ForeignKeyViolation
}
