package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// tables lists every table, children first.
var tables = []string{
	"employee_activities",
	"attendance_breaks",
	"attendance_sessions",
	"user_sessions",
	"onboarding_progress",
	"employee_resources",
	"employee_allowances",
	"employee_salaries",
	"user_accounts",
	"admin_users",
	"employees",
	"company_rules",
}

// newTestDB connects to TEST_DATABASE_URL, applies the migrations and
// empties every table. The test is skipped when no database is available.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		t.Skipf("test database unreachable: %v", err)
	}
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate())
	truncateAll(t, db)
	return db
}

func truncateAll(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	require.NoError(t, err)
}

// seedEmployee inserts an active employee and returns its id.
func seedEmployee(t *testing.T, db *database.DB, code, name, joinDate string) string {
	t.Helper()
	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO employees (employee_code, name, email, phone, department, position, join_date)
		VALUES ($1, $2, lower($1) || '@example.com', '03001234567', 'Support', 'Agent', $3::date)
		RETURNING id
	`, code, name, joinDate).Scan(&id)
	require.NoError(t, err)
	return id
}
