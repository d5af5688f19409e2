package attendance

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeeID = "0192a7b4-3c1e-7d2f-9a10-5b6c7d8e9f01"

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type staticIdentity struct{}

func (staticIdentity) FromClaims(_ context.Context, body string) (string, error) {
	if body != "" {
		return body, nil
	}
	return employeeID, nil
}

type fakeDirectory []attendance.ActiveEmployee

func (d fakeDirectory) ListActive(context.Context) ([]attendance.ActiveEmployee, error) {
	return d, nil
}

// memorySessions keeps sessions in insertion order and mirrors the
// guarded statements of the postgres repository.
type memorySessions struct {
	mu     sync.Mutex
	rows   []*attendance.Session
	breaks map[string][]attendance.BreakSummary
}

func (m *memorySessions) live(employeeID, date string) *attendance.Session {
	for _, s := range m.rows {
		if s.EmployeeID == employeeID && s.AttendanceDate == date && s.SupersededAt == nil {
			return s
		}
	}
	return nil
}

func (m *memorySessions) byID(id string) *attendance.Session {
	for _, s := range m.rows {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *memorySessions) add(s attendance.Session) attendance.Session {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.ExpectedWorkingMinutes == 0 {
		s.ExpectedWorkingMinutes = worktime.ExpectedShiftMinutes
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.rows = append(m.rows, &s)
	return s
}

func (m *memorySessions) InsertIfAbsent(_ context.Context, s attendance.Session) (attendance.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.live(s.EmployeeID, s.AttendanceDate) != nil {
		return attendance.Session{}, false, nil
	}
	return m.add(s), true, nil
}

func (m *memorySessions) LockLive(ctx context.Context, employeeID, date string) (attendance.Session, error) {
	return m.FindLive(ctx, employeeID, date)
}

func (m *memorySessions) LockOpen(_ context.Context, employeeID, date string) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(employeeID, date)
	if s == nil || !s.IsOpen() {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return *s, nil
}

func (m *memorySessions) FindLive(_ context.Context, employeeID, date string) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.live(employeeID, date)
	if s == nil {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return *s, nil
}

func (m *memorySessions) GetByID(_ context.Context, id string) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byID(id)
	if s == nil {
		return attendance.Session{}, attendance.ErrSessionNotFound
	}
	return *s, nil
}

func (m *memorySessions) Promote(_ context.Context, id string, checkIn shift.TimeOfDay, at time.Time, lateness shift.Lateness, remarks *string) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byID(id)
	if s == nil || s.CheckOutTime != nil {
		return attendance.Session{}, attendance.ErrAlreadyCheckedIn
	}
	s.CheckInTime = &checkIn
	s.CheckedInAt = &at
	s.Status = lateness.Status
	s.OnTime = lateness.OnTime
	s.LateByMinutes = lateness.LateByMinutes
	s.Remarks = remarks
	return *s, nil
}

func (m *memorySessions) Close(_ context.Context, id string, checkOut shift.TimeOfDay, result worktime.Result, remarks *string) (attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byID(id)
	if s == nil || s.CheckOutTime != nil {
		return attendance.Session{}, attendance.ErrAlreadyCheckedOut
	}
	s.CheckOutTime = &checkOut
	now := time.Now()
	gross, net := result.Gross, result.Net
	s.GrossWorkingMinutes = &gross
	s.NetWorkingMinutes = &net
	s.OvertimeMinutes = result.Overtime
	s.OvertimeHours = result.OvertimeHours
	s.WorkingTimeCheckedAt = &now
	if remarks != nil {
		s.Remarks = remarks
	}
	return *s, nil
}

func (m *memorySessions) Supersede(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID(id).SupersededAt = &at
	return nil
}

func (m *memorySessions) SaveWorkingTime(_ context.Context, id string, result worktime.Result) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byID(id)
	if s == nil || !s.NeedsRepair() {
		return false, nil
	}
	gross, net := result.Gross, result.Net
	s.GrossWorkingMinutes = &gross
	s.NetWorkingMinutes = &net
	s.OvertimeMinutes = result.Overtime
	s.OvertimeHours = result.OvertimeHours
	now := time.Now()
	s.WorkingTimeCheckedAt = &now
	return true, nil
}

func (m *memorySessions) LockRepairCandidates(_ context.Context, limit int) ([]attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Session
	for _, s := range m.rows {
		if s.NeedsRepair() && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memorySessions) LockStaleOpen(_ context.Context, cutoff time.Time, limit int) ([]attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Session
	for _, s := range m.rows {
		started := s.CreatedAt
		if s.CheckedInAt != nil {
			started = *s.CheckedInAt
		}
		if s.SupersededAt == nil && s.IsOpen() && !started.After(cutoff) && len(out) < limit {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memorySessions) InsertAbsent(_ context.Context, employeeID string, dates []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := 0
	for _, d := range dates {
		if m.live(employeeID, d) != nil {
			continue
		}
		m.add(attendance.Session{EmployeeID: employeeID, AttendanceDate: d, Status: shift.StatusAbsent})
		created++
	}
	return created, nil
}

func (m *memorySessions) ListByEmployeeBetween(_ context.Context, employeeID, from, to string) ([]attendance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []attendance.Session
	for _, s := range m.rows {
		if s.EmployeeID == employeeID && s.SupersededAt == nil && s.AttendanceDate >= from && s.AttendanceDate <= to {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttendanceDate < out[j].AttendanceDate })
	return out, nil
}

func (m *memorySessions) ListBreaks(_ context.Context, ids []string) (map[string][]attendance.BreakSummary, error) {
	out := map[string][]attendance.BreakSummary{}
	for _, id := range ids {
		if b, ok := m.breaks[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (m *memorySessions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func tod(s string) *shift.TimeOfDay {
	t := shift.MustParseTimeOfDay(s)
	return &t
}

func at(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, clock.PKT)
}

func newService(t *testing.T, now time.Time, repo *memorySessions, dir fakeDirectory, policy config.AttendanceConfig) attendance.AttendanceService {
	t.Helper()
	return NewAttendanceService(passthroughTx{}, repo, dir, staticIdentity{}, clock.Fixed(now), policy)
}

func TestCheckIn_OnTime(t *testing.T) {
	repo := &memorySessions{}
	svc := newService(t, at(2026, 10, 14, 21, 5), repo, nil, config.DefaultAttendance())

	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
	require.NoError(t, err)

	assert.Equal(t, employeeID, resp.EmployeeID)
	assert.Equal(t, "2026-10-14", resp.AttendanceDate)
	assert.Equal(t, shift.StatusPresent, resp.Status)
	assert.True(t, resp.OnTime)
	assert.True(t, resp.IsCheckedIn)
	assert.Equal(t, "21:05:00", *resp.CheckInTime)
	assert.Empty(t, resp.Warning)
	assert.Nil(t, resp.AutoClosedPrevious)
	assert.Equal(t, 1, repo.count())
}

func TestCheckIn_AfterMidnightIsLateForPreviousDate(t *testing.T) {
	repo := &memorySessions{}
	svc := newService(t, at(2026, 10, 15, 1, 30), repo, nil, config.DefaultAttendance())

	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2026-10-14", resp.AttendanceDate)
	assert.Equal(t, shift.StatusLate, resp.Status)
	assert.Equal(t, 255, resp.LateByMinutes)
	assert.True(t, resp.IsLate)
}

func TestCheckIn_SecondCheckInWhileOpenConflicts(t *testing.T) {
	repo := &memorySessions{}
	now := at(2026, 10, 14, 21, 5)
	svc := newService(t, now, repo, nil, config.DefaultAttendance())

	first, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
	require.NoError(t, err)

	later := newService(t, now.Add(90*time.Minute), repo, nil, config.DefaultAttendance())
	_, err = later.CheckIn(context.Background(), attendance.CheckInRequest{})
	require.ErrorIs(t, err, attendance.ErrOpenSessionExists)

	var open *attendance.OpenSessionError
	require.ErrorAs(t, err, &open)
	assert.Equal(t, first.ID, open.RecordID)
	assert.Equal(t, "21:05:00", open.CheckInTime)
	assert.Equal(t, "1.5", open.HoursOpen.String())

	assert.Equal(t, 1, repo.count())
}

func TestCheckIn_ClosedSessionRejected(t *testing.T) {
	repo := &memorySessions{}
	repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-14",
		CheckInTime:    tod("21:00:00"),
		CheckOutTime:   tod("23:00:00"),
		Status:         shift.StatusPresent,
	})
	svc := newService(t, at(2026, 10, 14, 23, 30), repo, nil, config.DefaultAttendance())

	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	assert.Equal(t, 1, repo.count())
}

func TestCheckIn_PromotesAbsentPlaceholder(t *testing.T) {
	repo := &memorySessions{}
	placeholder := repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-14",
		Status:         shift.StatusAbsent,
		CreatedAt:      at(2026, 10, 13, 6, 0),
	})
	now := at(2026, 10, 14, 22, 0)
	svc := newService(t, now, repo, nil, config.DefaultAttendance())

	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
	require.NoError(t, err)

	assert.Equal(t, placeholder.ID, resp.ID)
	assert.Equal(t, shift.StatusLate, resp.Status)
	assert.Equal(t, 45, resp.LateByMinutes)
	assert.Equal(t, 1, repo.count())

	promoted, err := repo.GetByID(context.Background(), placeholder.ID)
	require.NoError(t, err)
	require.NotNil(t, promoted.CheckedInAt)
	assert.Equal(t, time.Duration(0), promoted.OpenFor(now))
}

func TestCheckIn_StaleSessionIsAutoClosed(t *testing.T) {
	repo := &memorySessions{}
	checkedIn := at(2026, 10, 13, 21, 10)
	stale := repo.add(attendance.Session{
		EmployeeID:                employeeID,
		AttendanceDate:            "2026-10-14",
		CheckInTime:               tod("21:10:00"),
		Status:                    shift.StatusPresent,
		TotalBreakDurationMinutes: 20,
		CheckedInAt:               &checkedIn,
		CreatedAt:                 checkedIn,
	})
	svc := newService(t, at(2026, 10, 14, 21, 40), repo, nil, config.DefaultAttendance())

	resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
	require.NoError(t, err)

	require.NotNil(t, resp.AutoClosedPrevious)
	assert.Equal(t, stale.ID, resp.AutoClosedPrevious.ID)
	assert.Equal(t, "21:40:00", *resp.AutoClosedPrevious.CheckOutTime)
	assert.Equal(t, RemarkAutoClosed, *resp.AutoClosedPrevious.Remarks)
	assert.Equal(t, 30, *resp.AutoClosedPrevious.GrossWorkingMinutes)
	assert.Equal(t, 10, *resp.AutoClosedPrevious.NetWorkingMinutes)

	assert.NotEqual(t, stale.ID, resp.ID)
	assert.Equal(t, shift.StatusLate, resp.Status)
	assert.Equal(t, 2, repo.count())

	live, err := repo.FindLive(context.Background(), employeeID, "2026-10-14")
	require.NoError(t, err)
	assert.Equal(t, resp.ID, live.ID)
}

func TestCheckIn_OutsideShift(t *testing.T) {
	t.Run("accepted with warning", func(t *testing.T) {
		repo := &memorySessions{}
		svc := newService(t, at(2026, 10, 14, 12, 0), repo, nil, config.DefaultAttendance())

		resp, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
		require.NoError(t, err)
		assert.Equal(t, attendance.ErrOutsideShift.Error(), resp.Warning)
		require.NotNil(t, resp.Remarks)
		assert.Equal(t, RemarkOutsideShift, *resp.Remarks)
		assert.Equal(t, "2026-10-14", resp.AttendanceDate)
	})

	t.Run("rejected by policy", func(t *testing.T) {
		repo := &memorySessions{}
		policy := config.DefaultAttendance()
		policy.OutOfShiftPolicy = config.OutOfShiftReject
		svc := newService(t, at(2026, 10, 14, 12, 0), repo, nil, policy)

		_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendance.ErrOutsideShift)
		assert.Zero(t, repo.count())
	})

	t.Run("06:00 is past the shift", func(t *testing.T) {
		repo := &memorySessions{}
		policy := config.DefaultAttendance()
		policy.OutOfShiftPolicy = config.OutOfShiftReject

		_, err := newService(t, at(2026, 10, 15, 6, 0), repo, nil, policy).CheckIn(context.Background(), attendance.CheckInRequest{})
		assert.ErrorIs(t, err, attendance.ErrOutsideShift)

		resp, err := newService(t, at(2026, 10, 15, 5, 59), repo, nil, policy).CheckIn(context.Background(), attendance.CheckInRequest{})
		require.NoError(t, err)
		assert.Empty(t, resp.Warning)
		assert.Equal(t, "2026-10-14", resp.AttendanceDate)
	})
}

func TestCheckIn_InvalidEmployeeID(t *testing.T) {
	repo := &memorySessions{}
	svc := newService(t, at(2026, 10, 14, 21, 0), repo, nil, config.DefaultAttendance())

	_, err := svc.CheckIn(context.Background(), attendance.CheckInRequest{EmployeeID: "not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee_id")
	assert.Zero(t, repo.count())
}

func TestCheckOut_NothingOpen(t *testing.T) {
	repo := &memorySessions{}
	closed := repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-14",
		CheckInTime:    tod("21:00:00"),
		CheckOutTime:   tod("05:00:00"),
		Status:         shift.StatusPresent,
	})
	svc := newService(t, at(2026, 10, 15, 6, 30), repo, nil, config.DefaultAttendance())

	_, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)

	after, err := repo.GetByID(context.Background(), closed.ID)
	require.NoError(t, err)
	assert.Equal(t, "05:00:00", after.CheckOutTime.String())
	assert.Nil(t, after.GrossWorkingMinutes)
}

func TestCheckOut_AcrossMidnightFindsYesterday(t *testing.T) {
	repo := &memorySessions{}
	open := repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-14",
		CheckInTime:    tod("21:00:00"),
		Status:         shift.StatusPresent,
	})
	svc := newService(t, at(2026, 10, 15, 6, 30), repo, nil, config.DefaultAttendance())

	resp, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, open.ID, resp.ID)
	assert.Equal(t, "06:30:00", *resp.CheckOutTime)
	assert.Equal(t, 570, *resp.GrossWorkingMinutes)
	assert.Equal(t, 570, *resp.NetWorkingMinutes)
	assert.Equal(t, 30, resp.OvertimeMinutes)
	assert.Equal(t, "0.5", resp.OvertimeHours.String())
	assert.False(t, resp.IsCheckedIn)
	assert.False(t, resp.Repaired)

	_, err = svc.CheckOut(context.Background(), attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoOpenSession)
}

func TestCheckOut_SameMinuteLeavesZero(t *testing.T) {
	repo := &memorySessions{}
	repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-14",
		CheckInTime:    tod("21:00:00"),
		Status:         shift.StatusPresent,
	})
	svc := newService(t, at(2026, 10, 14, 21, 0), repo, nil, config.DefaultAttendance())

	resp, err := svc.CheckOut(context.Background(), attendance.CheckOutRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, *resp.GrossWorkingMinutes)
	assert.False(t, resp.Repaired)
}

func TestRepairAll_IsIdempotent(t *testing.T) {
	repo := &memorySessions{}
	broken := repo.add(attendance.Session{
		EmployeeID:                employeeID,
		AttendanceDate:            "2026-10-13",
		CheckInTime:               tod("21:00:00"),
		CheckOutTime:              tod("07:00:00"),
		Status:                    shift.StatusPresent,
		TotalBreakDurationMinutes: 30,
	})
	repo.add(attendance.Session{EmployeeID: employeeID, AttendanceDate: "2026-10-12", Status: shift.StatusAbsent})
	svc := newService(t, at(2026, 10, 14, 7, 0), repo, nil, config.DefaultAttendance())

	first, err := svc.RepairAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, first.RecordsUpdated)
	assert.Equal(t, broken.ID, first.Records[0].ID)
	assert.Equal(t, 600, first.Records[0].GrossMinutes)
	assert.Equal(t, 570, first.Records[0].NetMinutes)
	assert.Equal(t, 30, first.Records[0].OvertimeMinutes)

	second, err := svc.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.RecordsUpdated)
	assert.Empty(t, second.Records)
}

func TestRepairAll_ZeroMinuteRowsDoNotBlockTheSweep(t *testing.T) {
	repo := &memorySessions{}
	for i := 0; i < repairSweepLimit+5; i++ {
		repo.add(attendance.Session{
			EmployeeID:     uuid.NewString(),
			AttendanceDate: "2026-01-05",
			CheckInTime:    tod("21:56:49"),
			CheckOutTime:   tod("21:56:58"),
			Status:         shift.StatusPresent,
		})
	}
	broken := repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-13",
		CheckInTime:    tod("21:00:00"),
		CheckOutTime:   tod("05:00:00"),
		Status:         shift.StatusPresent,
	})
	svc := newService(t, at(2026, 10, 14, 7, 0), repo, nil, config.DefaultAttendance())

	first, err := svc.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repairSweepLimit, first.RecordsUpdated)

	second, err := svc.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, second.RecordsUpdated)

	fixed, err := repo.GetByID(context.Background(), broken.ID)
	require.NoError(t, err)
	require.NotNil(t, fixed.GrossWorkingMinutes)
	assert.Equal(t, 480, *fixed.GrossWorkingMinutes)

	zero, err := repo.GetByID(context.Background(), repo.rows[0].ID)
	require.NoError(t, err)
	require.NotNil(t, zero.GrossWorkingMinutes)
	require.NotNil(t, zero.NetWorkingMinutes)
	assert.Zero(t, *zero.GrossWorkingMinutes)
	assert.Zero(t, *zero.NetWorkingMinutes)
	assert.NotNil(t, zero.WorkingTimeCheckedAt)

	third, err := svc.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, third.RecordsUpdated)
}

func TestRepairSession(t *testing.T) {
	repo := &memorySessions{}
	broken := repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-13",
		CheckInTime:    tod("22:00:00"),
		CheckOutTime:   tod("02:00:00"),
		Status:         shift.StatusLate,
	})
	svc := newService(t, at(2026, 10, 14, 7, 0), repo, nil, config.DefaultAttendance())

	updated, err := svc.RepairSession(context.Background(), broken.ID)
	require.NoError(t, err)
	assert.True(t, updated)

	fixed, err := repo.GetByID(context.Background(), broken.ID)
	require.NoError(t, err)
	assert.Equal(t, 240, *fixed.GrossWorkingMinutes)

	updated, err = svc.RepairSession(context.Background(), broken.ID)
	require.NoError(t, err)
	assert.False(t, updated)

	_, err = svc.RepairSession(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, attendance.ErrSessionNotFound)
}

func TestCloseStale(t *testing.T) {
	repo := &memorySessions{}
	old := at(2026, 10, 13, 21, 0)
	recent := at(2026, 10, 14, 21, 0)
	stale := repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-13",
		CheckInTime:    tod("21:00:00"),
		Status:         shift.StatusPresent,
		CheckedInAt:    &old,
		CreatedAt:      old,
	})
	fresh := repo.add(attendance.Session{
		EmployeeID:     uuid.NewString(),
		AttendanceDate: "2026-10-14",
		CheckInTime:    tod("21:00:00"),
		Status:         shift.StatusPresent,
		CheckedInAt:    &recent,
		CreatedAt:      recent,
	})
	svc := newService(t, at(2026, 10, 14, 22, 0), repo, nil, config.DefaultAttendance())

	resp, err := svc.CloseStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Closed)

	closed, _ := repo.GetByID(context.Background(), stale.ID)
	assert.True(t, closed.IsClosed())
	assert.Equal(t, RemarkAutoClosed, *closed.Remarks)
	assert.Nil(t, closed.SupersededAt)

	stillOpen, _ := repo.GetByID(context.Background(), fresh.ID)
	assert.True(t, stillOpen.IsOpen())
}

func TestGenerateAbsent_IsIdempotent(t *testing.T) {
	repo := &memorySessions{}
	repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-13",
		CheckInTime:    tod("21:00:00"),
		Status:         shift.StatusPresent,
	})
	dir := fakeDirectory{{
		ID:       employeeID,
		Name:     "Ayesha Khan",
		JoinDate: time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC),
	}}
	svc := newService(t, at(2026, 10, 15, 6, 30), repo, dir, config.DefaultAttendance())

	first, err := svc.GenerateAbsent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", first.UpTo)
	assert.Equal(t, 1, first.Processed)
	// Fri 9th, Mon 12th to Thu 15th, less the 13th already present.
	assert.Equal(t, 4, first.Created)
	require.Len(t, first.Employees, 1)
	assert.Equal(t, 5, first.Employees[0].WorkingDays)

	second, err := svc.GenerateAbsent(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 5, repo.count())

	weekend, err := repo.FindLive(context.Background(), employeeID, "2026-10-10")
	assert.ErrorIs(t, err, attendance.ErrSessionNotFound)
	assert.Empty(t, weekend.ID)
}

func TestToday(t *testing.T) {
	repo := &memorySessions{breaks: map[string][]attendance.BreakSummary{}}
	svc := newService(t, at(2026, 10, 15, 2, 0), repo, nil, config.DefaultAttendance())

	_, err := svc.Today(context.Background(), employeeID)
	assert.ErrorIs(t, err, attendance.ErrSessionNotFound)

	s := repo.add(attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: "2026-10-14",
		CheckInTime:    tod("21:00:00"),
		Status:         shift.StatusPresent,
	})
	repo.breaks[s.ID] = []attendance.BreakSummary{{ID: "b1", AttendanceID: s.ID, BreakType: "Smoke", Status: "ongoing"}}

	resp, err := svc.Today(context.Background(), employeeID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, resp.ID)
	assert.True(t, resp.IsCheckedIn)
	require.Len(t, resp.Breaks, 1)
	assert.Equal(t, "ongoing", resp.Breaks[0].Status)
}

func TestMonthly(t *testing.T) {
	repo := &memorySessions{}
	repo.add(attendance.Session{EmployeeID: employeeID, AttendanceDate: "2026-10-02", Status: shift.StatusPresent, CheckInTime: tod("21:00:00")})
	repo.add(attendance.Session{EmployeeID: employeeID, AttendanceDate: "2026-10-01", Status: shift.StatusLate, CheckInTime: tod("22:00:00")})
	repo.add(attendance.Session{EmployeeID: employeeID, AttendanceDate: "2026-10-05", Status: shift.StatusAbsent})
	repo.add(attendance.Session{EmployeeID: employeeID, AttendanceDate: "2026-09-30", Status: shift.StatusPresent})
	svc := newService(t, at(2026, 10, 15, 2, 0), repo, nil, config.DefaultAttendance())

	resp, err := svc.Monthly(context.Background(), attendance.MonthlyFilter{EmployeeID: employeeID})
	require.NoError(t, err)

	assert.Equal(t, attendance.MonthlySummary{
		Year:        2026,
		Month:       10,
		TotalDays:   3,
		PresentDays: 1,
		AbsentDays:  1,
		LateDays:    1,
	}, resp.Summary)
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "2026-10-01", resp.Records[0].AttendanceDate)

	_, err = svc.Monthly(context.Background(), attendance.MonthlyFilter{EmployeeID: employeeID, Month: 13})
	assert.Error(t, err)
}
