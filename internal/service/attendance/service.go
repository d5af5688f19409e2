package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/workdays"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	RemarkOutsideShift = "Outside shift hours"
	RemarkAutoClosed   = "Auto-closed stale session"

	staleSweepLimit  = 500
	repairSweepLimit = 1000
	absentWorkers    = 4
)

// IdentityResolver picks the acting employee for a request.
type IdentityResolver interface {
	FromClaims(ctx context.Context, bodyEmployeeID string) (string, error)
}

type AttendanceServiceImpl struct {
	tx        postgresql.Transactor
	sessions  attendance.SessionRepository
	employees attendance.EmployeeDirectory
	identity  IdentityResolver
	clock     clock.Clock
	policy    config.AttendanceConfig
}

func NewAttendanceService(
	tx postgresql.Transactor,
	sessions attendance.SessionRepository,
	employees attendance.EmployeeDirectory,
	identity IdentityResolver,
	c clock.Clock,
	policy config.AttendanceConfig,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:        tx,
		sessions:  sessions,
		employees: employees,
		identity:  identity,
		clock:     c,
		policy:    policy,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	employeeID, err := s.identity.FromClaims(ctx, req.EmployeeID)
	if err != nil {
		return attendance.CheckInResponse{}, err
	}
	req.EmployeeID = employeeID
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}

	now := clock.Snapshot(s.clock)
	date := now.AttendanceDate()
	checkIn := now.TimeOfDay()
	lateness := shift.ClassifyCheckIn(checkIn)

	var (
		resp    attendance.CheckInResponse
		remarks *string
	)
	if !lateness.InShift {
		if s.policy.OutOfShiftPolicy == config.OutOfShiftReject {
			return attendance.CheckInResponse{}, attendance.ErrOutsideShift
		}
		slog.Warn("Check in outside shift hours", "employee_id", employeeID, "time", checkIn.String())
		remark := RemarkOutsideShift
		remarks = &remark
		resp.Warning = attendance.ErrOutsideShift.Error()
	}

	checkedInAt := now.Time
	candidate := attendance.Session{
		EmployeeID:     employeeID,
		AttendanceDate: date,
		CheckInTime:    &checkIn,
		Status:         lateness.Status,
		OnTime:         lateness.OnTime,
		LateByMinutes:  lateness.LateByMinutes,
		Remarks:        remarks,
		DeviceInfo:     req.DeviceInfo,
		IPAddress:      req.IPAddress,
		CheckedInAt:    &checkedInAt,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, inserted, err := s.sessions.InsertIfAbsent(ctx, candidate)
		if err != nil {
			return err
		}
		if inserted {
			resp.SessionResponse = attendance.NewSessionResponse(created)
			return nil
		}

		existing, err := s.sessions.LockLive(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("lock conflicting session: %w", err)
		}

		switch {
		case existing.IsClosed():
			return attendance.ErrAlreadyCheckedIn

		case existing.CheckInTime == nil:
			promoted, err := s.sessions.Promote(ctx, existing.ID, checkIn, now.Time, lateness, remarks)
			if err != nil {
				return err
			}
			resp.SessionResponse = attendance.NewSessionResponse(promoted)
			return nil

		case existing.OpenFor(now.Time) < s.policy.StaleAfter:
			return openSessionError(existing, now.Time)
		}

		closed, err := s.autoClose(ctx, existing, now)
		if err != nil {
			return err
		}
		if err := s.sessions.Supersede(ctx, existing.ID, now.Time); err != nil {
			return err
		}
		created, inserted, err = s.sessions.InsertIfAbsent(ctx, candidate)
		if err != nil {
			return err
		}
		if !inserted {
			return fmt.Errorf("session slot for %s still taken after superseding %s", date, existing.ID)
		}

		previous := attendance.NewSessionResponse(closed)
		resp.SessionResponse = attendance.NewSessionResponse(created)
		resp.AutoClosedPrevious = &previous
		return nil
	})
	if err != nil {
		return attendance.CheckInResponse{}, err
	}

	slog.Info("Check in recorded",
		"employee_id", employeeID,
		"attendance_date", date,
		"status", resp.Status,
		"late_by_minutes", resp.LateByMinutes,
		"auto_closed_previous", resp.AutoClosedPrevious != nil,
	)
	return resp, nil
}

func openSessionError(s attendance.Session, now time.Time) *attendance.OpenSessionError {
	hours := decimal.NewFromFloat(s.OpenFor(now).Hours()).Round(2)
	checkIn := ""
	if s.CheckInTime != nil {
		checkIn = s.CheckInTime.String()
	}
	return &attendance.OpenSessionError{
		RecordID:       s.ID,
		CheckInTime:    checkIn,
		AttendanceDate: s.AttendanceDate,
		HoursOpen:      hours,
	}
}

// autoClose checks an abandoned session out at now with the breaks taken so far.
func (s *AttendanceServiceImpl) autoClose(ctx context.Context, open attendance.Session, now clock.Moment) (attendance.Session, error) {
	checkOut := now.TimeOfDay()
	result := worktime.Compute(open.CheckInTime, &checkOut, open.TotalBreakDurationMinutes)
	remark := RemarkAutoClosed

	closed, err := s.sessions.Close(ctx, open.ID, checkOut, result, &remark)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("auto-close session %s: %w", open.ID, err)
	}
	slog.Warn("Auto-closed stale attendance session",
		"attendance_id", open.ID,
		"employee_id", open.EmployeeID,
		"attendance_date", open.AttendanceDate,
		"open_hours", open.OpenFor(now.Time).Hours(),
	)
	return closed, nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	employeeID, err := s.identity.FromClaims(ctx, req.EmployeeID)
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}
	req.EmployeeID = employeeID
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	now := clock.Snapshot(s.clock)
	var resp attendance.CheckOutResponse

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		open, err := s.lockOpenSession(ctx, employeeID, now)
		if err != nil {
			return err
		}

		checkOut := now.TimeOfDay()
		result := worktime.Compute(open.CheckInTime, &checkOut, open.TotalBreakDurationMinutes)
		closed, err := s.sessions.Close(ctx, open.ID, checkOut, result, nil)
		if err != nil {
			return err
		}

		if closed.NeedsRepair() {
			repaired, err := s.RepairSession(ctx, closed.ID)
			if err != nil {
				return err
			}
			if repaired {
				if closed, err = s.sessions.GetByID(ctx, closed.ID); err != nil {
					return err
				}
			}
			resp.Repaired = repaired
		}

		resp.SessionResponse = attendance.NewSessionResponse(closed)
		return nil
	})
	if err != nil {
		return attendance.CheckOutResponse{}, err
	}

	slog.Info("Check out recorded",
		"employee_id", employeeID,
		"attendance_date", resp.AttendanceDate,
		"net_minutes", resp.NetWorkingMinutes,
		"overtime_minutes", resp.OvertimeMinutes,
	)
	return resp, nil
}

// lockOpenSession finds the open session on the calendar date of now, then
// the day before. A shift that started last night is anchored to yesterday.
func (s *AttendanceServiceImpl) lockOpenSession(ctx context.Context, employeeID string, now clock.Moment) (attendance.Session, error) {
	for _, date := range []string{now.DateString(), now.YesterdayString()} {
		open, err := s.sessions.LockOpen(ctx, employeeID, date)
		if errors.Is(err, attendance.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return attendance.Session{}, err
		}
		return open, nil
	}
	return attendance.Session{}, attendance.ErrNoOpenSession
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, employeeID string) (attendance.SessionResponse, error) {
	now := clock.Snapshot(s.clock)

	session, err := s.sessions.FindLive(ctx, employeeID, now.AttendanceDate())
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	breaks, err := s.sessions.ListBreaks(ctx, []string{session.ID})
	if err != nil {
		return attendance.SessionResponse{}, err
	}

	resp := attendance.NewSessionResponse(session)
	resp.Breaks = breaks[session.ID]
	if resp.Breaks == nil {
		resp.Breaks = []attendance.BreakSummary{}
	}
	return resp, nil
}

// Monthly implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Monthly(ctx context.Context, filter attendance.MonthlyFilter) (attendance.MonthlyResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.MonthlyResponse{}, err
	}

	now := clock.Snapshot(s.clock)
	if filter.Year == 0 {
		filter.Year = now.Time.Year()
	}
	if filter.Month == 0 {
		filter.Month = int(now.Time.Month())
	}

	first := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, clock.PKT)
	last := first.AddDate(0, 1, -1)

	sessions, err := s.sessions.ListByEmployeeBetween(ctx, filter.EmployeeID, first.Format(clock.DateLayout), last.Format(clock.DateLayout))
	if err != nil {
		return attendance.MonthlyResponse{}, err
	}

	summary := attendance.MonthlySummary{Year: filter.Year, Month: filter.Month, TotalDays: len(sessions)}
	records := make([]attendance.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		switch sess.Status {
		case shift.StatusPresent:
			summary.PresentDays++
		case shift.StatusLate:
			summary.LateDays++
		case shift.StatusAbsent:
			summary.AbsentDays++
		}
		records = append(records, attendance.NewSessionResponse(sess))
	}

	return attendance.MonthlyResponse{Records: records, Summary: summary}, nil
}

// GenerateAbsent implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GenerateAbsent(ctx context.Context) (attendance.GenerateAbsentResponse, error) {
	now := clock.Snapshot(s.clock)

	employees, err := s.employees.ListActive(ctx)
	if err != nil {
		return attendance.GenerateAbsentResponse{}, err
	}

	results := make([]attendance.EmployeeAbsentResult, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(absentWorkers)

	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			joined, err := clock.ParseDate(emp.JoinDate.Format(clock.DateLayout))
			if err != nil {
				return err
			}
			days, err := workdays.Between(joined, now.Midnight())
			if err != nil {
				return fmt.Errorf("working days for %s: %w", emp.ID, err)
			}

			dates := make([]string, len(days))
			for j, d := range days {
				dates[j] = d.Format(clock.DateLayout)
			}

			created, err := s.sessions.InsertAbsent(gctx, emp.ID, dates)
			if err != nil {
				return fmt.Errorf("absent records for %s: %w", emp.ID, err)
			}

			results[i] = attendance.EmployeeAbsentResult{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				WorkingDays:  len(dates),
				Created:      created,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return attendance.GenerateAbsentResponse{}, err
	}

	resp := attendance.GenerateAbsentResponse{
		UpTo:      now.DateString(),
		Processed: len(employees),
		Employees: results,
	}
	for _, r := range results {
		resp.Created += r.Created
	}

	slog.Info("Absent records generated", "employees", resp.Processed, "created", resp.Created, "up_to", resp.UpTo)
	return resp, nil
}

// CloseStale implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CloseStale(ctx context.Context) (attendance.CloseStaleResponse, error) {
	now := clock.Snapshot(s.clock)
	cutoff := now.Time.Add(-s.policy.StaleAfter)

	var closed int
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stale, err := s.sessions.LockStaleOpen(ctx, cutoff, staleSweepLimit)
		if err != nil {
			return err
		}
		for _, sess := range stale {
			if _, err := s.autoClose(ctx, sess, now); err != nil {
				return err
			}
			closed++
		}
		return nil
	})
	if err != nil {
		return attendance.CloseStaleResponse{}, err
	}
	return attendance.CloseStaleResponse{Closed: closed}, nil
}

// RepairSession implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RepairSession(ctx context.Context, id string) (bool, error) {
	var updated bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		session, err := s.sessions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !session.NeedsRepair() {
			return nil
		}

		result := worktime.Compute(session.CheckInTime, session.CheckOutTime, session.TotalBreakDurationMinutes)
		updated, err = s.sessions.SaveWorkingTime(ctx, id, result)
		return err
	})
	if err != nil {
		return false, err
	}
	if updated {
		slog.Info("Repaired attendance working time", "attendance_id", id)
	}
	return updated, nil
}

// RepairAll implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RepairAll(ctx context.Context) (attendance.RepairResponse, error) {
	resp := attendance.RepairResponse{Records: []attendance.RepairedRecord{}}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		candidates, err := s.sessions.LockRepairCandidates(ctx, repairSweepLimit)
		if err != nil {
			return err
		}

		for _, sess := range candidates {
			result := worktime.Compute(sess.CheckInTime, sess.CheckOutTime, sess.TotalBreakDurationMinutes)
			updated, err := s.sessions.SaveWorkingTime(ctx, sess.ID, result)
			if err != nil {
				return err
			}
			if !updated {
				continue
			}
			resp.Records = append(resp.Records, attendance.RepairedRecord{
				ID:              sess.ID,
				EmployeeID:      sess.EmployeeID,
				AttendanceDate:  sess.AttendanceDate,
				GrossMinutes:    result.Gross,
				NetMinutes:      result.Net,
				OvertimeMinutes: result.Overtime,
			})
		}
		return nil
	})
	if err != nil {
		return attendance.RepairResponse{}, err
	}

	resp.RecordsUpdated = len(resp.Records)
	if resp.RecordsUpdated > 0 {
		slog.Info("Repaired attendance working time", "records_updated", resp.RecordsUpdated)
	}
	return resp, nil
}
