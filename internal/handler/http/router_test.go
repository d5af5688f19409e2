package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/rule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	employeeID = "0192a3b4-0000-7000-8000-0000000000e1"
	accountID  = "0192a3b4-0000-7000-8000-0000000000a1"
)

type stubAttendance struct {
	attendance.AttendanceService
	checkInErr  error
	lastCheckIn attendance.CheckInRequest
	todayFor    string
	monthly     attendance.MonthlyFilter
}

func (s *stubAttendance) CheckIn(_ context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	s.lastCheckIn = req
	if s.checkInErr != nil {
		return attendance.CheckInResponse{}, s.checkInErr
	}
	return attendance.CheckInResponse{SessionResponse: attendance.SessionResponse{ID: "s1", EmployeeID: employeeID}}, nil
}

func (s *stubAttendance) Today(_ context.Context, id string) (attendance.SessionResponse, error) {
	s.todayFor = id
	return attendance.SessionResponse{ID: "s1", EmployeeID: id}, nil
}

func (s *stubAttendance) Monthly(_ context.Context, f attendance.MonthlyFilter) (attendance.MonthlyResponse, error) {
	s.monthly = f
	return attendance.MonthlyResponse{}, nil
}

func (s *stubAttendance) GenerateAbsent(context.Context) (attendance.GenerateAbsentResponse, error) {
	return attendance.GenerateAbsentResponse{}, nil
}

type stubBreaks struct {
	breaks.BreakService
	endErr error
}

func (s *stubBreaks) End(context.Context, breaks.EndRequest) (breaks.EndResponse, error) {
	return breaks.EndResponse{}, s.endErr
}

type stubActivities struct {
	activity.ActivityService
	lastRecord activity.RecordRequest
	lastList   activity.ListFilter
}

func (s *stubActivities) Record(_ context.Context, req activity.RecordRequest) (activity.ActivityResponse, error) {
	s.lastRecord = req
	return activity.ActivityResponse{ID: "a1", EmployeeID: employeeID, ActivityType: req.ActivityType, Action: req.Action}, nil
}

func (s *stubActivities) List(_ context.Context, f activity.ListFilter) (activity.ListResponse, error) {
	s.lastList = f
	return activity.ListResponse{}, nil
}

type stubReports struct {
	report.ReportService
	exportErr error
}

func (s *stubReports) ExportOvertime(context.Context, report.RangeFilter) (report.Export, error) {
	if s.exportErr != nil {
		return report.Export{}, s.exportErr
	}
	return report.Export{Filename: "overtime_report_all_2026-10-15.xlsx", ContentType: "application/octet-stream", Content: []byte("xlsx")}, nil
}

type stubRules struct {
	rule.RuleService
}

func (stubRules) Get(context.Context, string) (rule.RuleResponse, error) {
	return rule.RuleResponse{}, rule.ErrRuleNotFound
}

type stubAuth struct {
	auth.AuthService
}

type stubSessions map[string]bool

func (s stubSessions) IsSessionActive(_ context.Context, tokenID string) (bool, error) {
	active, ok := s[tokenID]
	if !ok {
		return false, errors.New("storage down")
	}
	return active, nil
}

// accountAliases maps the account id onto its employee.
type accountAliases struct{}

func (accountAliases) Canonical(_ context.Context, id string) (string, error) {
	if id == accountID {
		return employeeID, nil
	}
	return id, nil
}

type fixture struct {
	router     http.Handler
	tokens     jwt.Service
	sessions   stubSessions
	attendance *stubAttendance
	breaks     *stubBreaks
	reports    *stubReports
	activities *stubActivities
}

func newFixture() *fixture {
	f := &fixture{
		tokens:     jwt.NewJWTService("handler-secret", "1h"),
		sessions:   stubSessions{},
		attendance: &stubAttendance{},
		breaks:     &stubBreaks{},
		reports:    &stubReports{},
		activities: &stubActivities{},
	}
	now := clock.Fixed(time.Date(2026, 10, 14, 22, 0, 0, 0, clock.PKT))
	f.router = NewRouter(RouterOptions{CORSOrigins: []string{"http://localhost:3000"}}, f.tokens, f.sessions, Handlers{
		Auth:       NewAuthHandler(stubAuth{}),
		Attendance: NewAttendanceHandler(f.attendance, accountAliases{}),
		Break:      NewBreakHandler(f.breaks, accountAliases{}),
		Report:     NewReportHandler(f.reports),
		Rule:       NewRuleHandler(stubRules{}),
		Onboarding: NewOnboardingHandler(nil),
		Activity:   NewActivityHandler(f.activities, accountAliases{}),
		Health:     NewHealthHandler(pingFunc(func(context.Context) error { return nil }), now),
	})
	return f
}

type pingFunc func(ctx context.Context) error

func (p pingFunc) Ping(ctx context.Context) error { return p(ctx) }

func (f *fixture) token(t *testing.T, role auth.Role, active bool) string {
	t.Helper()
	var emp *string
	if role == auth.RoleEmployee {
		id := employeeID
		emp = &id
	}
	token, tokenID, _, err := f.tokens.GenerateAccessToken(accountID, "a@example.com", "Ayesha", emp, role)
	require.NoError(t, err)
	f.sessions[tokenID] = active
	return token
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCheckIn_RequiresToken(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/attendance/check-in", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckIn_Created(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/attendance/check-in", f.token(t, auth.RoleEmployee, true), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "s1", body["data"].(map[string]any)["id"])
	require.NotNil(t, f.attendance.lastCheckIn.IPAddress)
}

func TestCheckIn_RevokedSession(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/attendance/check-in", f.token(t, auth.RoleEmployee, false), `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "logged out")
}

func TestCheckIn_OpenSessionConflict(t *testing.T) {
	f := newFixture()
	f.attendance.checkInErr = &attendance.OpenSessionError{
		RecordID:       "s0",
		CheckInTime:    "21:00:00",
		AttendanceDate: "2026-10-14",
		HoursOpen:      decimal.RequireFromString("1.5"),
	}

	rec := f.do(http.MethodPost, "/api/v1/attendance/check-in", f.token(t, auth.RoleEmployee, true), `{}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	body := decode(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "s0", data["record_id"])
	assert.Equal(t, "2026-10-14", data["attendance_date"])
	assert.Equal(t, "CONFLICT", body["error"].(map[string]any)["code"])
}

func TestCheckIn_ValidationAndMalformed(t *testing.T) {
	f := newFixture()
	token := f.token(t, auth.RoleEmployee, true)

	f.attendance.checkInErr = validator.Required("employee_id")
	rec := f.do(http.MethodPost, "/api/v1/attendance/check-in", token, `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	details := decode(t, rec)["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "employee_id is required", details["employee_id"])

	rec = f.do(http.MethodPost, "/api/v1/attendance/check-in", token, `{"employee_id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBreakEnd_NotFound(t *testing.T) {
	f := newFixture()
	f.breaks.endErr = breaks.ErrNoOngoingBreak

	rec := f.do(http.MethodPatch, "/api/v1/attendance/break-end", f.token(t, auth.RoleEmployee, true), `{"break_type":"Smoke"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBreakEnd_EndBeforeStart(t *testing.T) {
	f := newFixture()
	f.breaks.endErr = breaks.ErrEndBeforeStart

	rec := f.do(http.MethodPatch, "/api/v1/attendance/break-end", f.token(t, auth.RoleEmployee, true), `{"break_type":"Smoke","break_end_time":"20:00"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	details := decode(t, rec)["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, breaks.ErrEndBeforeStart.Error(), details["break_end_time"])
}

func TestActivityRecord_RequiresToken(t *testing.T) {
	f := newFixture()
	body := `{"activity_type":"System","action":"Opened dashboard"}`

	rec := f.do(http.MethodPost, "/api/v1/activities/record", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/activities/record", f.token(t, auth.RoleEmployee, true), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Opened dashboard", f.activities.lastRecord.Action)
	assert.Equal(t, "a1", decode(t, rec)["data"].(map[string]any)["id"])
}

func TestActivityLists_CanonicaliseEmployee(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/activities/employee/"+accountID+"?page=2&limit=10", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.activities.lastList.EmployeeID)
	assert.Equal(t, employeeID, *f.activities.lastList.EmployeeID)
	assert.Equal(t, 2, f.activities.lastList.Page)
	assert.Equal(t, 10, f.activities.lastList.Limit)

	rec = f.do(http.MethodGet, "/api/v1/activities/all?employee_id="+accountID+"&activity_type=System&start_date=2026-10-01", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, employeeID, *f.activities.lastList.EmployeeID)
	assert.Equal(t, "System", *f.activities.lastList.ActivityType)
	assert.Equal(t, "2026-10-01", *f.activities.lastList.StartDate)
}

func TestGenerateAbsent_AdminOnly(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/api/v1/attendance/generate-absent", f.token(t, auth.RoleEmployee, true), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/attendance/generate-absent", f.token(t, auth.RoleAdmin, true), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTodayAndMonthly_CanonicalisePathID(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/attendance/today/"+accountID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, employeeID, f.attendance.todayFor)

	rec = f.do(http.MethodGet, "/api/v1/attendance/monthly/"+employeeID+"?year=2026&month=9", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, attendance.MonthlyFilter{EmployeeID: employeeID, Year: 2026, Month: 9}, f.attendance.monthly)
}

func TestExportOvertime_Download(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/attendance/overtime/export", f.token(t, auth.RoleAdmin, true), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="overtime_report_all_2026-10-15.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.Equal([]byte("xlsx"), rec.Body.Bytes()))

	f.reports.exportErr = report.ErrExportTooLarge
	rec = f.do(http.MethodGet, "/api/v1/attendance/overtime/export", f.token(t, auth.RoleAdmin, true), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRuleGet_NotFoundIsPublic(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/rules/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/rules", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOnboarding_RejectsEmployees(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/api/v1/onboarding/employees", f.token(t, auth.RoleEmployee, true), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSessionLookupFailureIsUnauthorized(t *testing.T) {
	f := newFixture()
	token, _, _, err := f.tokens.GenerateAccessToken(accountID, "a@example.com", "Ayesha", nil, auth.RoleAdmin)
	require.NoError(t, err)

	rec := f.do(http.MethodGet, "/api/v1/auth/session", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "2026-10-14T22:00:00+05:00", data["time"])
}

func TestHandleError_Cause(t *testing.T) {
	defer response.ExposeErrorCause(false)

	rec := httptest.NewRecorder()
	response.HandleError(rec, errors.New("relation \"attendance\" does not exist"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "cause")

	response.ExposeErrorCause(true)
	rec = httptest.NewRecorder()
	response.HandleError(rec, errors.New("relation \"attendance\" does not exist"))
	details := decode(t, rec)["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details["cause"], "does not exist")
}
