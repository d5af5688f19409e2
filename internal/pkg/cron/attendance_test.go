package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMaintenance struct {
	closed, generated, repaired int
	repairErr                   error
}

func (c *countingMaintenance) CloseStale(context.Context) (attendance.CloseStaleResponse, error) {
	c.closed++
	return attendance.CloseStaleResponse{Closed: 2}, nil
}

func (c *countingMaintenance) GenerateAbsent(context.Context) (attendance.GenerateAbsentResponse, error) {
	c.generated++
	return attendance.GenerateAbsentResponse{Created: 3}, nil
}

func (c *countingMaintenance) RepairAll(context.Context) (attendance.RepairResponse, error) {
	c.repaired++
	return attendance.RepairResponse{}, c.repairErr
}

func at(hour int) clock.Clock {
	return clock.Fixed(time.Date(2026, 10, 15, hour, 30, 0, 0, clock.PKT))
}

func TestRegisterJobs(t *testing.T) {
	s := NewScheduler(context.Background())
	NewAttendanceJobs(&countingMaintenance{}, at(6)).RegisterJobs(s)

	assert.Equal(t, []string{"close_stale_attendance_sessions", "generate_absent_records", "repair_working_time"}, s.JobNames())
}

func TestGenerateAbsentRecords_OnlyAfterShift(t *testing.T) {
	m := &countingMaintenance{}

	require.NoError(t, NewAttendanceJobs(m, at(22)).GenerateAbsentRecords(context.Background()))
	require.NoError(t, NewAttendanceJobs(m, at(5)).GenerateAbsentRecords(context.Background()))
	assert.Zero(t, m.generated)

	require.NoError(t, NewAttendanceJobs(m, at(AbsentRunHour)).GenerateAbsentRecords(context.Background()))
	assert.Equal(t, 1, m.generated)
}

func TestRunOnce_ReportsFailures(t *testing.T) {
	m := &countingMaintenance{repairErr: errors.New("deadlock detected")}
	s := NewScheduler(context.Background())
	NewAttendanceJobs(m, at(6)).RegisterJobs(s)

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repair working time")
	assert.Equal(t, 1, m.closed)
	assert.Equal(t, 1, m.generated)
	assert.Equal(t, 1, m.repaired)
}

func TestSchedulerRunsImmediatelyAndStops(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := NewScheduler(context.Background())
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
