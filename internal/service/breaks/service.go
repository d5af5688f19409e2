package breaks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
)

const RemarkCreatedByBreak = "Session created by break start"

// IdentityResolver picks the acting employee for a request.
type IdentityResolver interface {
	FromClaims(ctx context.Context, bodyEmployeeID string) (string, error)
}

type BreakServiceImpl struct {
	tx       postgresql.Transactor
	breaks   breaks.Repository
	sessions attendance.SessionRepository
	identity IdentityResolver
	clock    clock.Clock
	policy   config.AttendanceConfig
}

func NewBreakService(
	tx postgresql.Transactor,
	breakRepo breaks.Repository,
	sessions attendance.SessionRepository,
	identity IdentityResolver,
	c clock.Clock,
	policy config.AttendanceConfig,
) breaks.BreakService {
	return &BreakServiceImpl{
		tx:       tx,
		breaks:   breakRepo,
		sessions: sessions,
		identity: identity,
		clock:    c,
		policy:   policy,
	}
}

func parseOptionalTime(value *string, fallback shift.TimeOfDay) (shift.TimeOfDay, error) {
	if value == nil || *value == "" {
		return fallback, nil
	}
	return shift.ParseTimeOfDay(*value)
}

// lockOpen returns the open session of the attendance date, locked.
func (s *BreakServiceImpl) lockOpen(ctx context.Context, employeeID, date string) (attendance.Session, error) {
	sess, err := s.sessions.LockOpen(ctx, employeeID, date)
	if errors.Is(err, attendance.ErrSessionNotFound) {
		return attendance.Session{}, breaks.ErrNoOpenSession
	}
	return sess, err
}

// Start implements breaks.BreakService.
func (s *BreakServiceImpl) Start(ctx context.Context, req breaks.StartRequest) (breaks.StartResponse, error) {
	employeeID, err := s.identity.FromClaims(ctx, req.EmployeeID)
	if err != nil {
		return breaks.StartResponse{}, err
	}
	req.EmployeeID = employeeID
	if err := req.Validate(); err != nil {
		return breaks.StartResponse{}, err
	}
	breakType, _ := breaks.ParseBreakType(req.BreakType)

	now := clock.Snapshot(s.clock)
	date := now.AttendanceDate()
	start, err := parseOptionalTime(req.BreakStartTime, now.TimeOfDay())
	if err != nil {
		return breaks.StartResponse{}, err
	}

	var resp breaks.StartResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.sessionForBreak(ctx, employeeID, date, start, now, &resp)
		if err != nil {
			return err
		}

		record, err := s.breaks.Insert(ctx, breaks.Record{
			AttendanceID: sess.ID,
			EmployeeID:   employeeID,
			BreakType:    breakType,
			StartTime:    start,
			Reason:       req.Reason,
		})
		if err != nil {
			return err
		}

		resp.Break = breaks.NewBreakResponse(record)
		resp.Attendance = attendance.NewSessionResponse(sess)
		return nil
	})
	if err != nil {
		return breaks.StartResponse{}, err
	}

	slog.Info("Break started",
		"employee_id", employeeID,
		"break_type", breakType,
		"attendance_id", resp.Attendance.ID,
		"session_created", resp.SessionCreated,
	)
	return resp, nil
}

// sessionForBreak locks the session a break starts on. A missing session is
// created and a placeholder is promoted, both checked in at start.
func (s *BreakServiceImpl) sessionForBreak(ctx context.Context, employeeID, date string, start shift.TimeOfDay, now clock.Moment, resp *breaks.StartResponse) (attendance.Session, error) {
	present := shift.Lateness{Status: shift.StatusPresent, OnTime: true, InShift: true}

	sess, err := s.sessions.LockLive(ctx, employeeID, date)
	if errors.Is(err, attendance.ErrSessionNotFound) {
		remark := RemarkCreatedByBreak
		checkedInAt := now.Time
		created, inserted, err := s.sessions.InsertIfAbsent(ctx, attendance.Session{
			EmployeeID:     employeeID,
			AttendanceDate: date,
			CheckInTime:    &start,
			Status:         present.Status,
			OnTime:         present.OnTime,
			Remarks:        &remark,
			CheckedInAt:    &checkedInAt,
		})
		if err != nil {
			return attendance.Session{}, err
		}
		if inserted {
			resp.SessionCreated = true
			slog.Warn("Break started without check in, session created", "employee_id", employeeID, "attendance_date", date)
			return created, nil
		}
		// Lost the insert race to a concurrent check-in.
		sess, err = s.sessions.LockLive(ctx, employeeID, date)
		if err != nil {
			return attendance.Session{}, err
		}
	} else if err != nil {
		return attendance.Session{}, err
	}

	switch {
	case sess.IsClosed():
		return attendance.Session{}, breaks.ErrSessionClosed
	case sess.CheckInTime == nil:
		promoted, err := s.sessions.Promote(ctx, sess.ID, start, now.Time, present, sess.Remarks)
		if err != nil {
			return attendance.Session{}, err
		}
		resp.SessionPromoted = true
		return promoted, nil
	}
	return sess, nil
}

// Progress implements breaks.BreakService.
func (s *BreakServiceImpl) Progress(ctx context.Context, req breaks.ProgressRequest) (breaks.BreakResponse, error) {
	employeeID, err := s.identity.FromClaims(ctx, req.EmployeeID)
	if err != nil {
		return breaks.BreakResponse{}, err
	}
	req.EmployeeID = employeeID
	if err := req.Validate(); err != nil {
		return breaks.BreakResponse{}, err
	}
	breakType, _ := breaks.ParseBreakType(req.BreakType)

	now := clock.Snapshot(s.clock)

	var resp breaks.BreakResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.lockOpen(ctx, employeeID, now.AttendanceDate())
		if err != nil {
			return err
		}
		ongoing, err := s.breaks.LockLatestOngoing(ctx, sess.ID, breakType)
		if err != nil {
			return err
		}
		updated, err := s.breaks.UpdateProgress(ctx, ongoing.ID, req.CurrentDurationMinutes)
		if err != nil {
			return err
		}
		resp = breaks.NewBreakResponse(updated)
		return nil
	})
	if err != nil {
		return breaks.BreakResponse{}, err
	}
	return resp, nil
}

// finalDuration applies the configured duration source to a finished break.
func (s *BreakServiceImpl) finalDuration(start, end shift.TimeOfDay, client *int) (int, config.BreakDurationSource) {
	server := breaks.ElapsedMinutes(start, end)
	if s.policy.BreakDurationSource == config.BreakDurationClient && client != nil && *client >= 0 {
		return *client, config.BreakDurationClient
	}
	return server, config.BreakDurationServer
}

// End implements breaks.BreakService.
func (s *BreakServiceImpl) End(ctx context.Context, req breaks.EndRequest) (breaks.EndResponse, error) {
	employeeID, err := s.identity.FromClaims(ctx, req.EmployeeID)
	if err != nil {
		return breaks.EndResponse{}, err
	}
	req.EmployeeID = employeeID
	if err := req.Validate(); err != nil {
		return breaks.EndResponse{}, err
	}
	breakType, _ := breaks.ParseBreakType(req.BreakType)

	now := clock.Snapshot(s.clock)
	end, err := parseOptionalTime(req.BreakEndTime, now.TimeOfDay())
	if err != nil {
		return breaks.EndResponse{}, err
	}

	var resp breaks.EndResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.lockOpen(ctx, employeeID, now.AttendanceDate())
		if err != nil {
			return err
		}
		ongoing, err := s.breaks.LockLatestOngoing(ctx, sess.ID, breakType)
		if err != nil {
			return err
		}

		if req.BreakEndTime != nil && *req.BreakEndTime != "" && !breaks.EndsAfter(ongoing.StartTime, end) {
			return breaks.ErrEndBeforeStart
		}

		minutes, source := s.finalDuration(ongoing.StartTime, end, req.BreakDurationMinutes)
		finished, err := s.breaks.Finish(ctx, ongoing.ID, end, minutes)
		if err != nil {
			return err
		}
		taken, total, err := s.breaks.AddToSession(ctx, sess.ID, breakType, minutes)
		if err != nil {
			return err
		}

		resp = breaks.EndResponse{
			Break:                     breaks.NewBreakResponse(finished),
			DurationSource:            string(source),
			TotalBreaksTaken:          taken,
			TotalBreakDurationMinutes: total,
		}
		return nil
	})
	if err != nil {
		return breaks.EndResponse{}, err
	}

	slog.Info("Break ended",
		"employee_id", employeeID,
		"break_type", breakType,
		"duration_minutes", resp.Break.DurationMinutes,
		"duration_source", resp.DurationSource,
	)
	return resp, nil
}

// Record implements breaks.BreakService.
func (s *BreakServiceImpl) Record(ctx context.Context, req breaks.RecordRequest) (breaks.EndResponse, error) {
	employeeID, err := s.identity.FromClaims(ctx, req.EmployeeID)
	if err != nil {
		return breaks.EndResponse{}, err
	}
	req.EmployeeID = employeeID
	if err := req.Validate(); err != nil {
		return breaks.EndResponse{}, err
	}
	breakType, _ := breaks.ParseBreakType(req.BreakType)

	start, err := shift.ParseTimeOfDay(req.BreakStartTime)
	if err != nil {
		return breaks.EndResponse{}, err
	}

	var (
		end     shift.TimeOfDay
		minutes int
		source  config.BreakDurationSource
	)
	if req.BreakEndTime != nil && *req.BreakEndTime != "" {
		if end, err = shift.ParseTimeOfDay(*req.BreakEndTime); err != nil {
			return breaks.EndResponse{}, err
		}
		if !breaks.EndsAfter(start, end) {
			return breaks.EndResponse{}, breaks.ErrEndBeforeStart
		}
		minutes, source = s.finalDuration(start, end, req.BreakDurationMinutes)
	} else {
		minutes, source = *req.BreakDurationMinutes, config.BreakDurationClient
		end = addMinutes(start, minutes)
	}

	now := clock.Snapshot(s.clock)

	var resp breaks.EndResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sess, err := s.lockOpen(ctx, employeeID, now.AttendanceDate())
		if err != nil {
			return err
		}

		record, err := s.breaks.Insert(ctx, breaks.Record{
			AttendanceID:    sess.ID,
			EmployeeID:      employeeID,
			BreakType:       breakType,
			StartTime:       start,
			EndTime:         &end,
			DurationMinutes: minutes,
			Reason:          req.Reason,
		})
		if err != nil {
			return err
		}
		taken, total, err := s.breaks.AddToSession(ctx, sess.ID, breakType, minutes)
		if err != nil {
			return err
		}

		resp = breaks.EndResponse{
			Break:                     breaks.NewBreakResponse(record),
			DurationSource:            string(source),
			TotalBreaksTaken:          taken,
			TotalBreakDurationMinutes: total,
		}
		return nil
	})
	if err != nil {
		return breaks.EndResponse{}, err
	}
	return resp, nil
}

func addMinutes(t shift.TimeOfDay, minutes int) shift.TimeOfDay {
	m := (t.Minutes() + minutes) % shift.MinutesPerDay
	return shift.TimeOfDay{Hour: m / 60, Minute: m % 60, Second: t.Second}
}

// Ongoing implements breaks.BreakService.
func (s *BreakServiceImpl) Ongoing(ctx context.Context, employeeID string) (breaks.OngoingResponse, error) {
	now := clock.Snapshot(s.clock)

	sess, err := s.sessions.FindLive(ctx, employeeID, now.AttendanceDate())
	if errors.Is(err, attendance.ErrSessionNotFound) || (err == nil && !sess.IsOpen()) {
		return breaks.OngoingResponse{}, breaks.ErrNoOpenSession
	}
	if err != nil {
		return breaks.OngoingResponse{}, err
	}

	anchor, err := clock.ParseDate(sess.AttendanceDate)
	if err != nil {
		return breaks.OngoingResponse{}, fmt.Errorf("parse attendance date: %w", err)
	}

	records, err := s.breaks.ListOngoing(ctx, sess.ID)
	if err != nil {
		return breaks.OngoingResponse{}, err
	}

	resp := breaks.OngoingResponse{
		AttendanceID:   sess.ID,
		AttendanceDate: sess.AttendanceDate,
		Breaks:         make([]breaks.OngoingBreak, 0, len(records)),
	}
	for _, r := range records {
		startedAt := breaks.StartedAt(anchor, r.StartTime)
		live := max(0, int(math.Floor(now.Time.Sub(startedAt).Minutes())))

		item := breaks.OngoingBreak{
			BreakResponse:         breaks.NewBreakResponse(r),
			StoredDurationMinutes: r.DurationMinutes,
			LiveDurationMinutes:   live,
			StartedAt:             startedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		item.DurationMinutes = breaks.ReconcileDuration(r.DurationMinutes, live)
		resp.Breaks = append(resp.Breaks, item)
	}
	resp.Count = len(resp.Breaks)
	return resp, nil
}

// Today implements breaks.BreakService.
func (s *BreakServiceImpl) Today(ctx context.Context, employeeID string) (breaks.TodayResponse, error) {
	now := clock.Snapshot(s.clock)

	sess, err := s.sessions.FindLive(ctx, employeeID, now.AttendanceDate())
	if err != nil {
		return breaks.TodayResponse{}, err
	}

	records, err := s.breaks.ListBySession(ctx, sess.ID)
	if err != nil {
		return breaks.TodayResponse{}, err
	}

	resp := breaks.TodayResponse{
		AttendanceID:              sess.ID,
		AttendanceDate:            sess.AttendanceDate,
		Breaks:                    make([]breaks.BreakResponse, 0, len(records)),
		TotalBreaksTaken:          sess.TotalBreaksTaken,
		TotalBreakDurationMinutes: sess.TotalBreakDurationMinutes,
	}
	for _, r := range records {
		resp.Breaks = append(resp.Breaks, breaks.NewBreakResponse(r))
	}
	return resp, nil
}

// List implements breaks.BreakService.
func (s *BreakServiceImpl) List(ctx context.Context, filter breaks.ListFilter) (breaks.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return breaks.ListResponse{}, err
	}

	records, total, err := s.breaks.List(ctx, filter)
	if err != nil {
		return breaks.ListResponse{}, err
	}

	resp := breaks.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Breaks:     make([]breaks.BreakResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Breaks = append(resp.Breaks, breaks.NewBreakResponse(r))
	}
	return resp, nil
}
