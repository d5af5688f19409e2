package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
)

const activityColumns = `
	a.id, a.employee_id, e.name, e.department, a.activity_type, a.action, a.description,
	a.occurred_at, to_char(a.activity_date, 'YYYY-MM-DD'), a.location, a.device,
	a.duration_minutes, a.created_at`

type activityRepository struct {
	db *database.DB
}

func NewActivityRepository(db *database.DB) activity.Repository {
	return &activityRepository{db: db}
}

// Insert implements activity.Repository.
func (r *activityRepository) Insert(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return activity.Activity{}, fmt.Errorf("generate activity id: %w", err)
		}
		a.ID = id.String()
	}

	query := `
		INSERT INTO employee_activities (
			id, employee_id, activity_type, action, description,
			occurred_at, activity_date, location, device, duration_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7::date, $8, $9, $10)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		a.ID, a.EmployeeID, a.ActivityType, a.Action, a.Description,
		a.OccurredAt, a.ActivityDate, a.Location, a.Device, a.DurationMinutes,
	).Scan(&a.CreatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return activity.Activity{}, employee.ErrEmployeeNotFound
		}
		return activity.Activity{}, fmt.Errorf("failed to insert activity: %w", err)
	}

	return a, nil
}

func activityWhere(employeeID, activityType, date, startDate, endDate *string) (string, []interface{}) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	add := func(clause string, v string) {
		whereClauses = append(whereClauses, fmt.Sprintf(clause, argIdx))
		args = append(args, v)
		argIdx++
	}

	if employeeID != nil && *employeeID != "" {
		add("a.employee_id = $%d", *employeeID)
	}
	if activityType != nil && *activityType != "" {
		add("a.activity_type = $%d", *activityType)
	}
	if date != nil && *date != "" {
		add("a.activity_date = $%d::date", *date)
	}
	if startDate != nil && *startDate != "" {
		add("a.activity_date >= $%d::date", *startDate)
	}
	if endDate != nil && *endDate != "" {
		add("a.activity_date <= $%d::date", *endDate)
	}
	return strings.Join(whereClauses, " AND "), args
}

// List implements activity.Repository.
func (r *activityRepository) List(ctx context.Context, filter activity.ListFilter) ([]activity.Activity, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereSQL, args := activityWhere(filter.EmployeeID, filter.ActivityType, filter.Date, filter.StartDate, filter.EndDate)
	from := `
		FROM employee_activities a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + whereSQL

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	argIdx := len(args) + 1
	query := `SELECT ` + activityColumns + from +
		fmt.Sprintf(" ORDER BY a.occurred_at DESC, a.id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		var a activity.Activity
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.EmployeeName, &a.Department, &a.ActivityType, &a.Action, &a.Description,
			&a.OccurredAt, &a.ActivityDate, &a.Location, &a.Device,
			&a.DurationMinutes, &a.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// Stats implements activity.Repository.
func (r *activityRepository) Stats(ctx context.Context, filter activity.StatsFilter) ([]activity.TypeStat, error) {
	q := GetQuerier(ctx, r.db)

	whereSQL, args := activityWhere(nil, nil, nil, filter.StartDate, filter.EndDate)
	query := `
		SELECT a.activity_type, COUNT(*), COUNT(DISTINCT a.employee_id)
		FROM employee_activities a
		WHERE ` + whereSQL + `
		GROUP BY a.activity_type
		ORDER BY COUNT(*) DESC, a.activity_type`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activities: %w", err)
	}
	defer rows.Close()

	var stats []activity.TypeStat
	for rows.Next() {
		var st activity.TypeStat
		if err := rows.Scan(&st.ActivityType, &st.Count, &st.UniqueEmployees); err != nil {
			return nil, fmt.Errorf("failed to scan activity stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
