package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/rule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ruleNameKey = "company_rules_rule_name_key"

const ruleColumns = `
	id, rule_name, rule_type, description,
	to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'), total_hours,
	break_duration_minutes, break_type, overtime_starts_after_minutes, overtime_multiplier,
	is_active, priority, created_at, updated_at`

func scanRule(row pgx.Row) (rule.Rule, error) {
	var r rule.Rule
	err := row.Scan(
		&r.ID, &r.Name, &r.Type, &r.Description,
		&r.StartTime, &r.EndTime, &r.TotalHours,
		&r.BreakDurationMinutes, &r.BreakType, &r.OvertimeStartsAfterMinutes, &r.OvertimeMultiplier,
		&r.IsActive, &r.Priority, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

type ruleRepositoryImpl struct {
	db *database.DB
}

func NewRuleRepository(db *database.DB) rule.RuleRepository {
	return &ruleRepositoryImpl{db: db}
}

// Create implements rule.RuleRepository.
func (r *ruleRepositoryImpl) Create(ctx context.Context, newRule rule.Rule) (rule.Rule, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return rule.Rule{}, fmt.Errorf("generate rule id: %w", err)
	}

	query := `
		INSERT INTO company_rules (
			id, rule_name, rule_type, description, start_time, end_time, total_hours,
			break_duration_minutes, break_type, overtime_starts_after_minutes, overtime_multiplier,
			is_active, priority
		) VALUES ($1, $2, $3, $4, $5::time, $6::time, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + ruleColumns

	created, err := scanRule(q.QueryRow(ctx, query,
		id.String(), newRule.Name, newRule.Type, newRule.Description,
		newRule.StartTime, newRule.EndTime, newRule.TotalHours,
		newRule.BreakDurationMinutes, newRule.BreakType, newRule.OvertimeStartsAfterMinutes, newRule.OvertimeMultiplier,
		newRule.IsActive, newRule.Priority,
	))
	if err != nil {
		if database.IsUniqueViolation(err, ruleNameKey) {
			return rule.Rule{}, rule.ErrRuleNameExists
		}
		return rule.Rule{}, fmt.Errorf("failed to create rule: %w", err)
	}
	return created, nil
}

// GetByID implements rule.RuleRepository.
func (r *ruleRepositoryImpl) GetByID(ctx context.Context, id string) (rule.Rule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + ruleColumns + ` FROM company_rules WHERE id = $1`

	found, err := scanRule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rule.Rule{}, rule.ErrRuleNotFound
		}
		return rule.Rule{}, fmt.Errorf("failed to get rule: %w", err)
	}
	return found, nil
}

func (r *ruleRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]rule.Rule, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []rule.Rule
	for rows.Next() {
		found, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, found)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return rules, nil
}

// ListActive implements rule.RuleRepository.
func (r *ruleRepositoryImpl) ListActive(ctx context.Context) ([]rule.Rule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+`
		FROM company_rules
		WHERE is_active = TRUE
		ORDER BY priority ASC, created_at DESC`)
}

// ListActiveByType implements rule.RuleRepository.
func (r *ruleRepositoryImpl) ListActiveByType(ctx context.Context, t rule.Type) ([]rule.Rule, error) {
	return r.list(ctx, `SELECT `+ruleColumns+`
		FROM company_rules
		WHERE is_active = TRUE AND rule_type = $1
		ORDER BY priority ASC, created_at DESC`, t)
}

// ExistsByName implements rule.RuleRepository.
func (r *ruleRepositoryImpl) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT EXISTS(SELECT 1 FROM company_rules WHERE rule_name = $1 AND ($2 = '' OR id::text <> $2))`

	var exists bool
	if err := q.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rule name: %w", err)
	}
	return exists, nil
}

// Update implements rule.RuleRepository.
func (r *ruleRepositoryImpl) Update(ctx context.Context, req rule.UpdateRuleRequest) (rule.Rule, error) {
	q := GetQuerier(ctx, r.db)

	// Build dynamic update query
	query := `UPDATE company_rules SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	set := func(column, cast string, value interface{}) {
		query += fmt.Sprintf(", %s = $%d%s", column, argIdx, cast)
		args = append(args, value)
		argIdx++
	}

	if req.RuleName != nil {
		set("rule_name", "", *req.RuleName)
	}
	if req.Description != nil {
		set("description", "", *req.Description)
	}
	if req.StartTime != nil {
		set("start_time", "::time", *req.StartTime)
	}
	if req.EndTime != nil {
		set("end_time", "::time", *req.EndTime)
	}
	if req.TotalHours != nil {
		set("total_hours", "", *req.TotalHours)
	}
	if req.BreakDurationMinutes != nil {
		set("break_duration_minutes", "", *req.BreakDurationMinutes)
	}
	if req.BreakType != nil {
		set("break_type", "", *req.BreakType)
	}
	if req.OvertimeStartsAfterMinutes != nil {
		set("overtime_starts_after_minutes", "", *req.OvertimeStartsAfterMinutes)
	}
	if req.OvertimeMultiplier != nil {
		set("overtime_multiplier", "", *req.OvertimeMultiplier)
	}
	if req.IsActive != nil {
		set("is_active", "", *req.IsActive)
	}
	if req.Priority != nil {
		set("priority", "", *req.Priority)
	}

	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", argIdx, ruleColumns)
	args = append(args, req.ID)

	updated, err := scanRule(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rule.Rule{}, rule.ErrRuleNotFound
		}
		if database.IsUniqueViolation(err, ruleNameKey) {
			return rule.Rule{}, rule.ErrRuleNameExists
		}
		return rule.Rule{}, fmt.Errorf("failed to update rule: %w", err)
	}
	return updated, nil
}

// Delete implements rule.RuleRepository.
func (r *ruleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM company_rules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return rule.ErrRuleNotFound
	}
	return nil
}
