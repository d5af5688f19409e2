package database

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	args  int
	start time.Time
}

// QueryLogger is a pgx.QueryTracer that writes every statement to slog at
// debug level, and failures at warn.
type QueryLogger struct{}

var _ pgx.QueryTracer = (*QueryLogger)(nil)

func (l *QueryLogger) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{
		sql:   compactSQL(data.SQL),
		args:  len(data.Args),
		start: time.Now(),
	})
}

func (l *QueryLogger) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	attrs := []any{
		"sql", qs.sql,
		"args", qs.args,
		"duration", time.Since(qs.start),
		"rows", data.CommandTag.RowsAffected(),
	}

	if data.Err != nil && !errors.Is(data.Err, pgx.ErrNoRows) {
		slog.WarnContext(ctx, "SQL failed", append(attrs, "error", data.Err)...)
		return
	}
	slog.DebugContext(ctx, "SQL", attrs...)
}

func compactSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
