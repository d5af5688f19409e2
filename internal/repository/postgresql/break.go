package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ongoingBreakKey = "attendance_breaks_one_ongoing_key"

const breakColumns = `
	b.id, b.attendance_id, b.employee_id, b.break_type,
	to_char(b.break_start_time, 'HH24:MI:SS'), to_char(b.break_end_time, 'HH24:MI:SS'),
	b.break_duration_minutes, b.reason, b.created_at, b.updated_at`

func scanBreak(row pgx.Row, extra ...any) (breaks.Record, error) {
	var (
		r          breaks.Record
		start, end *string
	)
	dest := []any{
		&r.ID, &r.AttendanceID, &r.EmployeeID, &r.BreakType,
		&start, &end,
		&r.DurationMinutes, &r.Reason, &r.CreatedAt, &r.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return breaks.Record{}, err
	}

	st, err := parseTimeOfDay(start)
	if err != nil {
		return breaks.Record{}, err
	}
	if st != nil {
		r.StartTime = *st
	}
	if r.EndTime, err = parseTimeOfDay(end); err != nil {
		return breaks.Record{}, err
	}
	return r, nil
}

func scanBreaks(rows pgx.Rows) ([]breaks.Record, error) {
	defer rows.Close()

	var records []breaks.Record
	for rows.Next() {
		r, err := scanBreak(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) breaks.Repository {
	return &breakRepository{db: db}
}

// Insert implements breaks.Repository.
func (b *breakRepository) Insert(ctx context.Context, r breaks.Record) (breaks.Record, error) {
	q := GetQuerier(ctx, b.db)

	if r.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return breaks.Record{}, fmt.Errorf("generate break id: %w", err)
		}
		r.ID = id.String()
	}

	query := `
		INSERT INTO attendance_breaks (
			id, attendance_id, employee_id, break_type,
			break_start_time, break_end_time, break_duration_minutes, reason
		) VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		r.ID, r.AttendanceID, r.EmployeeID, r.BreakType,
		r.StartTime.String(), timeArg(r.EndTime), r.DurationMinutes, r.Reason,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, ongoingBreakKey) {
			return breaks.Record{}, breaks.ErrBreakAlreadyOngoing
		}
		return breaks.Record{}, fmt.Errorf("failed to insert break: %w", err)
	}

	return r, nil
}

// LockLatestOngoing implements breaks.Repository.
func (b *breakRepository) LockLatestOngoing(ctx context.Context, attendanceID string, breakType breaks.BreakType) (breaks.Record, error) {
	q := GetQuerier(ctx, b.db)

	query := `SELECT ` + breakColumns + `
		FROM attendance_breaks b
		WHERE b.attendance_id = $1
		  AND b.break_type = $2
		  AND b.break_end_time IS NULL
		ORDER BY b.created_at DESC
		LIMIT 1
		FOR UPDATE`

	r, err := scanBreak(q.QueryRow(ctx, query, attendanceID, breakType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return breaks.Record{}, breaks.ErrNoOngoingBreak
		}
		return breaks.Record{}, fmt.Errorf("failed to get ongoing break: %w", err)
	}
	return r, nil
}

// UpdateProgress implements breaks.Repository.
func (b *breakRepository) UpdateProgress(ctx context.Context, id string, minutes int) (breaks.Record, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		UPDATE attendance_breaks b
		SET break_duration_minutes = $2, updated_at = NOW()
		WHERE b.id = $1 AND b.break_end_time IS NULL
		RETURNING ` + breakColumns

	r, err := scanBreak(q.QueryRow(ctx, query, id, minutes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return breaks.Record{}, breaks.ErrNoOngoingBreak
		}
		return breaks.Record{}, fmt.Errorf("failed to update break progress: %w", err)
	}
	return r, nil
}

// Finish implements breaks.Repository.
func (b *breakRepository) Finish(ctx context.Context, id string, end shift.TimeOfDay, minutes int) (breaks.Record, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		UPDATE attendance_breaks b
		SET break_end_time = $2::time, break_duration_minutes = $3, updated_at = NOW()
		WHERE b.id = $1 AND b.break_end_time IS NULL
		RETURNING ` + breakColumns

	r, err := scanBreak(q.QueryRow(ctx, query, id, end.String(), minutes))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return breaks.Record{}, breaks.ErrNoOngoingBreak
		}
		return breaks.Record{}, fmt.Errorf("failed to finish break: %w", err)
	}
	return r, nil
}

// AddToSession implements breaks.Repository. Column names come from
// BreakType.Columns, never from request input.
func (b *breakRepository) AddToSession(ctx context.Context, attendanceID string, breakType breaks.BreakType, minutes int) (int, int, error) {
	q := GetQuerier(ctx, b.db)

	sets := []string{
		"total_breaks_taken = total_breaks_taken + 1",
		"total_break_duration_minutes = total_break_duration_minutes + $2",
		"updated_at = NOW()",
	}
	if cols := breakType.Columns(); cols.HasCategory {
		sets = append([]string{
			fmt.Sprintf("%s = %s + 1", cols.Count, cols.Count),
			fmt.Sprintf("%s = %s + $2", cols.Duration, cols.Duration),
		}, sets...)
	}

	query := `UPDATE attendance_sessions SET ` + strings.Join(sets, ", ") + `
		WHERE id = $1
		RETURNING total_breaks_taken, total_break_duration_minutes`

	var taken, total int
	if err := q.QueryRow(ctx, query, attendanceID, minutes).Scan(&taken, &total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, breaks.ErrNoOpenSession
		}
		return 0, 0, fmt.Errorf("failed to update session break totals: %w", err)
	}
	return taken, total, nil
}

// ListOngoing implements breaks.Repository.
func (b *breakRepository) ListOngoing(ctx context.Context, attendanceID string) ([]breaks.Record, error) {
	q := GetQuerier(ctx, b.db)

	query := `SELECT ` + breakColumns + `
		FROM attendance_breaks b
		WHERE b.attendance_id = $1 AND b.break_end_time IS NULL
		ORDER BY b.created_at`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ongoing breaks: %w", err)
	}
	records, err := scanBreaks(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ongoing breaks: %w", err)
	}
	return records, nil
}

// ListBySession implements breaks.Repository.
func (b *breakRepository) ListBySession(ctx context.Context, attendanceID string) ([]breaks.Record, error) {
	q := GetQuerier(ctx, b.db)

	query := `SELECT ` + breakColumns + `
		FROM attendance_breaks b
		WHERE b.attendance_id = $1
		ORDER BY b.created_at`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session breaks: %w", err)
	}
	records, err := scanBreaks(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan session breaks: %w", err)
	}
	return records, nil
}

// List implements breaks.Repository.
func (b *breakRepository) List(ctx context.Context, filter breaks.ListFilter) ([]breaks.Record, int64, error) {
	q := GetQuerier(ctx, b.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Date != nil && *filter.Date != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("s.attendance_date = $%d::date", argIdx))
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("b.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.BreakType != nil && *filter.BreakType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("b.break_type = $%d", argIdx))
		args = append(args, *filter.BreakType)
		argIdx++
	}
	whereSQL := strings.Join(whereClauses, " AND ")

	from := `
		FROM attendance_breaks b
		JOIN attendance_sessions s ON s.id = b.attendance_id
		LEFT JOIN employees e ON e.id = b.employee_id
		WHERE ` + whereSQL

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count breaks: %w", err)
	}

	query := `SELECT ` + breakColumns + `, e.name, to_char(s.attendance_date, 'YYYY-MM-DD') ` + from +
		fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	var records []breaks.Record
	for rows.Next() {
		var (
			name *string
			date string
		)
		r, err := scanBreak(rows, &name, &date)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan break: %w", err)
		}
		r.EmployeeName = name
		r.AttendanceDate = &date
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
