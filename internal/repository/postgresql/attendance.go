package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// sessionColumns must stay in step with scanSession.
const sessionColumns = `
	s.id, s.employee_id, to_char(s.attendance_date, 'YYYY-MM-DD'),
	to_char(s.check_in_time, 'HH24:MI:SS'), to_char(s.check_out_time, 'HH24:MI:SS'),
	s.status, s.on_time, s.late_by_minutes,
	s.gross_working_minutes, s.net_working_minutes, s.expected_working_minutes,
	s.overtime_minutes, s.overtime_hours,
	s.smoke_break_count, s.dinner_break_count, s.washroom_break_count, s.prayer_break_count,
	s.smoke_break_duration_minutes, s.dinner_break_duration_minutes,
	s.washroom_break_duration_minutes, s.prayer_break_duration_minutes,
	s.total_breaks_taken, s.total_break_duration_minutes,
	s.remarks, s.device_info, s.ip_address, s.checked_in_at, s.superseded_at,
	s.working_time_checked_at, s.created_at, s.updated_at,
	e.name, e.email`

const sessionFrom = `
	FROM attendance_sessions s
	LEFT JOIN employees e ON e.id = s.employee_id`

func scanSession(row pgx.Row) (attendance.Session, error) {
	var (
		s                 attendance.Session
		checkIn, checkOut *string
	)
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.AttendanceDate,
		&checkIn, &checkOut,
		&s.Status, &s.OnTime, &s.LateByMinutes,
		&s.GrossWorkingMinutes, &s.NetWorkingMinutes, &s.ExpectedWorkingMinutes,
		&s.OvertimeMinutes, &s.OvertimeHours,
		&s.Breaks.SmokeCount, &s.Breaks.DinnerCount, &s.Breaks.WashroomCount, &s.Breaks.PrayerCount,
		&s.Breaks.SmokeMinutes, &s.Breaks.DinnerMinutes,
		&s.Breaks.WashroomMinutes, &s.Breaks.PrayerMinutes,
		&s.TotalBreaksTaken, &s.TotalBreakDurationMinutes,
		&s.Remarks, &s.DeviceInfo, &s.IPAddress, &s.CheckedInAt, &s.SupersededAt,
		&s.WorkingTimeCheckedAt, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.EmployeeEmail,
	)
	if err != nil {
		return attendance.Session{}, err
	}
	if s.CheckInTime, err = parseTimeOfDay(checkIn); err != nil {
		return attendance.Session{}, err
	}
	if s.CheckOutTime, err = parseTimeOfDay(checkOut); err != nil {
		return attendance.Session{}, err
	}
	return s, nil
}

func scanSessions(rows pgx.Rows) ([]attendance.Session, error) {
	defer rows.Close()

	var sessions []attendance.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func parseTimeOfDay(s *string) (*shift.TimeOfDay, error) {
	if s == nil {
		return nil, nil
	}
	t, err := shift.ParseTimeOfDay(*s)
	if err != nil {
		return nil, fmt.Errorf("stored time %q: %w", *s, err)
	}
	return &t, nil
}

func timeArg(t *shift.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.SessionRepository {
	return &sessionRepository{db: db}
}

// InsertIfAbsent implements attendance.SessionRepository.
func (r *sessionRepository) InsertIfAbsent(ctx context.Context, s attendance.Session) (attendance.Session, bool, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Session{}, false, fmt.Errorf("generate session id: %w", err)
		}
		s.ID = id.String()
	}
	if s.ExpectedWorkingMinutes == 0 {
		s.ExpectedWorkingMinutes = worktime.ExpectedShiftMinutes
	}

	query := `
		INSERT INTO attendance_sessions (
			id, employee_id, attendance_date, check_in_time, status, on_time, late_by_minutes,
			expected_working_minutes, remarks, device_info, ip_address, checked_in_at
		) VALUES (
			$1, $2, $3::date, $4::time, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (employee_id, attendance_date) WHERE superseded_at IS NULL DO NOTHING
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		s.ID, s.EmployeeID, s.AttendanceDate, timeArg(s.CheckInTime), s.Status, s.OnTime, s.LateByMinutes,
		s.ExpectedWorkingMinutes, s.Remarks, s.DeviceInfo, s.IPAddress, s.CheckedInAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, false, nil
		}
		return attendance.Session{}, false, fmt.Errorf("failed to insert attendance session: %w", err)
	}

	created, err := r.GetByID(ctx, id)
	if err != nil {
		return attendance.Session{}, false, err
	}
	return created, true, nil
}

func (r *sessionRepository) findLive(ctx context.Context, employeeID, date string, openOnly, lock bool) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + sessionFrom + `
		WHERE s.employee_id = $1
		  AND s.attendance_date = $2::date
		  AND s.superseded_at IS NULL`
	if openOnly {
		query += `
		  AND s.check_in_time IS NOT NULL
		  AND s.check_out_time IS NULL`
	}
	if lock {
		query += `
		FOR UPDATE OF s`
	}

	s, err := scanSession(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session: %w", err)
	}
	return s, nil
}

// LockLive implements attendance.SessionRepository.
func (r *sessionRepository) LockLive(ctx context.Context, employeeID string, date string) (attendance.Session, error) {
	return r.findLive(ctx, employeeID, date, false, true)
}

// LockOpen implements attendance.SessionRepository.
func (r *sessionRepository) LockOpen(ctx context.Context, employeeID string, date string) (attendance.Session, error) {
	return r.findLive(ctx, employeeID, date, true, true)
}

// FindLive implements attendance.SessionRepository.
func (r *sessionRepository) FindLive(ctx context.Context, employeeID string, date string) (attendance.Session, error) {
	return r.findLive(ctx, employeeID, date, false, false)
}

// GetByID implements attendance.SessionRepository.
func (r *sessionRepository) GetByID(ctx context.Context, id string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + sessionFrom + ` WHERE s.id = $1`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Session{}, attendance.ErrSessionNotFound
		}
		return attendance.Session{}, fmt.Errorf("failed to get attendance session by id: %w", err)
	}
	return s, nil
}

// Promote implements attendance.SessionRepository.
func (r *sessionRepository) Promote(ctx context.Context, id string, checkIn shift.TimeOfDay, at time.Time, lateness shift.Lateness, remarks *string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET check_in_time = $2::time,
			checked_in_at = $3,
			status = $4,
			on_time = $5,
			late_by_minutes = $6,
			gross_working_minutes = NULL,
			net_working_minutes = NULL,
			remarks = $7,
			updated_at = NOW()
		WHERE id = $1
		  AND check_out_time IS NULL
	`

	tag, err := q.Exec(ctx, query, id, checkIn.String(), at, lateness.Status, lateness.OnTime, lateness.LateByMinutes, remarks)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to promote attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Session{}, attendance.ErrAlreadyCheckedIn
	}
	return r.GetByID(ctx, id)
}

// Close implements attendance.SessionRepository.
func (r *sessionRepository) Close(ctx context.Context, id string, checkOut shift.TimeOfDay, result worktime.Result, remarks *string) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET check_out_time = $2::time,
			gross_working_minutes = $3,
			net_working_minutes = $4,
			overtime_minutes = $5,
			overtime_hours = $6,
			remarks = COALESCE($7, remarks),
			working_time_checked_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		  AND check_out_time IS NULL
	`

	tag, err := q.Exec(ctx, query, id, checkOut.String(), result.Gross, result.Net, result.Overtime, result.OvertimeHours, remarks)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to close attendance session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.Session{}, attendance.ErrAlreadyCheckedOut
	}
	return r.GetByID(ctx, id)
}

// Supersede implements attendance.SessionRepository.
func (r *sessionRepository) Supersede(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET superseded_at = $2, updated_at = NOW()
		WHERE id = $1 AND superseded_at IS NULL
	`

	if _, err := q.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to supersede attendance session: %w", err)
	}
	return nil
}

// SaveWorkingTime implements attendance.SessionRepository.
func (r *sessionRepository) SaveWorkingTime(ctx context.Context, id string, result worktime.Result) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET gross_working_minutes = $2,
			net_working_minutes = $3,
			overtime_minutes = $4,
			overtime_hours = $5,
			working_time_checked_at = NOW(),
			updated_at = NOW()
		WHERE id = $1
		  AND status IN ('Present', 'Late')
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NOT NULL
		  AND (gross_working_minutes IS NULL OR gross_working_minutes = 0)
		  AND working_time_checked_at IS NULL
	`

	tag, err := q.Exec(ctx, query, id, result.Gross, result.Net, result.Overtime, result.OvertimeHours)
	if err != nil {
		return false, fmt.Errorf("failed to save working time: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// LockRepairCandidates implements attendance.SessionRepository.
func (r *sessionRepository) LockRepairCandidates(ctx context.Context, limit int) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + sessionFrom + `
		WHERE s.status IN ('Present', 'Late')
		  AND s.check_in_time IS NOT NULL
		  AND s.check_out_time IS NOT NULL
		  AND (s.gross_working_minutes IS NULL OR s.gross_working_minutes = 0)
		  AND s.working_time_checked_at IS NULL
		ORDER BY s.attendance_date, s.id
		LIMIT $1
		FOR UPDATE OF s SKIP LOCKED`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list repair candidates: %w", err)
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan repair candidates: %w", err)
	}
	return sessions, nil
}

// LockStaleOpen implements attendance.SessionRepository.
func (r *sessionRepository) LockStaleOpen(ctx context.Context, cutoff time.Time, limit int) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + sessionFrom + `
		WHERE s.check_in_time IS NOT NULL
		  AND s.check_out_time IS NULL
		  AND s.superseded_at IS NULL
		  AND COALESCE(s.checked_in_at, s.created_at) <= $1
		ORDER BY COALESCE(s.checked_in_at, s.created_at)
		LIMIT $2
		FOR UPDATE OF s SKIP LOCKED`

	rows, err := q.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale sessions: %w", err)
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan stale sessions: %w", err)
	}
	return sessions, nil
}

// InsertAbsent implements attendance.SessionRepository.
func (r *sessionRepository) InsertAbsent(ctx context.Context, employeeID string, dates []string) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	q := GetQuerier(ctx, r.db)

	ids := make([]string, len(dates))
	for i := range dates {
		id, err := uuid.NewV7()
		if err != nil {
			return 0, fmt.Errorf("generate session id: %w", err)
		}
		ids[i] = id.String()
	}

	query := `
		INSERT INTO attendance_sessions (
			id, employee_id, attendance_date, status, on_time, late_by_minutes,
			gross_working_minutes, net_working_minutes, overtime_minutes, overtime_hours
		)
		SELECT t.id::uuid, $1, t.d::date, 'Absent', FALSE, 0, 0, 0, 0, 0
		FROM unnest($2::text[], $3::text[]) AS t(id, d)
		ON CONFLICT (employee_id, attendance_date) WHERE superseded_at IS NULL DO NOTHING
	`

	tag, err := q.Exec(ctx, query, employeeID, ids, dates)
	if err != nil {
		return 0, fmt.Errorf("failed to insert absent records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ListByEmployeeBetween implements attendance.SessionRepository.
func (r *sessionRepository) ListByEmployeeBetween(ctx context.Context, employeeID string, from, to string) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + sessionFrom + `
		WHERE s.employee_id = $1
		  AND s.attendance_date BETWEEN $2::date AND $3::date
		  AND s.superseded_at IS NULL
		ORDER BY s.attendance_date`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	sessions, err := scanSessions(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	return sessions, nil
}

// ListBreaks implements attendance.SessionRepository.
func (r *sessionRepository) ListBreaks(ctx context.Context, sessionIDs []string) (map[string][]attendance.BreakSummary, error) {
	result := make(map[string][]attendance.BreakSummary, len(sessionIDs))
	if len(sessionIDs) == 0 {
		return result, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_id, break_type,
			   to_char(break_start_time, 'HH24:MI:SS'), to_char(break_end_time, 'HH24:MI:SS'),
			   break_duration_minutes, reason
		FROM attendance_breaks
		WHERE attendance_id = ANY($1::text[]::uuid[])
		ORDER BY attendance_id, created_at
	`

	rows, err := q.Query(ctx, query, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list session breaks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b attendance.BreakSummary
		if err := rows.Scan(&b.ID, &b.AttendanceID, &b.BreakType, &b.StartTime, &b.EndTime, &b.DurationMinutes, &b.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan session break: %w", err)
		}
		b.Status = breaks.StatusCompleted
		if b.EndTime == nil {
			b.Status = breaks.StatusOngoing
		}
		result[b.AttendanceID] = append(result[b.AttendanceID], b)
	}
	return result, rows.Err()
}
