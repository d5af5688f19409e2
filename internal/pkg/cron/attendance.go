package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

// AbsentRunHour is the PKT hour in which absent records are generated, once
// the night shift is over.
const AbsentRunHour = 6

// AttendanceMaintenance is the part of the attendance service the jobs drive.
type AttendanceMaintenance interface {
	CloseStale(ctx context.Context) (attendance.CloseStaleResponse, error)
	GenerateAbsent(ctx context.Context) (attendance.GenerateAbsentResponse, error)
	RepairAll(ctx context.Context) (attendance.RepairResponse, error)
}

type AttendanceJobs struct {
	attendance AttendanceMaintenance
	clock      clock.Clock
}

func NewAttendanceJobs(attendance AttendanceMaintenance, c clock.Clock) *AttendanceJobs {
	return &AttendanceJobs{
		attendance: attendance,
		clock:      c,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_stale_attendance_sessions", time.Hour, j.CloseStaleSessions)
	scheduler.AddJob("generate_absent_records", time.Hour, j.GenerateAbsentRecords)
	scheduler.AddJob("repair_working_time", time.Hour, j.RepairWorkingTime)
}

func (j *AttendanceJobs) CloseStaleSessions(ctx context.Context) error {
	result, err := j.attendance.CloseStale(ctx)
	if err != nil {
		return fmt.Errorf("failed to close stale sessions: %w", err)
	}
	if result.Closed > 0 {
		slog.Info("Cron: Auto-closed stale attendance sessions", "count", result.Closed)
	}
	return nil
}

// GenerateAbsentRecords only does work during AbsentRunHour.
func (j *AttendanceJobs) GenerateAbsentRecords(ctx context.Context) error {
	if clock.Snapshot(j.clock).Time.Hour() != AbsentRunHour {
		return nil
	}

	slog.Info("Cron: Starting generate absent records job")
	result, err := j.attendance.GenerateAbsent(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate absent records: %w", err)
	}
	slog.Info("Cron: Generated absent records", "created", result.Created, "employees", result.Processed)
	return nil
}

func (j *AttendanceJobs) RepairWorkingTime(ctx context.Context) error {
	result, err := j.attendance.RepairAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to repair working time: %w", err)
	}
	if result.RecordsUpdated > 0 {
		slog.Info("Cron: Repaired working time", "count", result.RecordsUpdated)
	}
	return nil
}
