package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakRepository_OneOngoingPerType(t *testing.T) {
	db := newTestDB(t)
	sessions := postgresql.NewSessionRepository(db)
	repo := postgresql.NewBreakRepository(db)
	ctx := context.Background()
	emp := seedEmployee(t, db, "EMP-010", "Farah", "2026-01-05")

	s, _, err := sessions.InsertIfAbsent(ctx, checkedIn(emp, "2026-10-14", "21:00:00"))
	require.NoError(t, err)

	start := breaks.Record{
		AttendanceID: s.ID,
		EmployeeID:   emp,
		BreakType:    breaks.Smoke,
		StartTime:    shift.MustParseTimeOfDay("23:50:00"),
	}
	first, err := repo.Insert(ctx, start)
	require.NoError(t, err)

	_, err = repo.Insert(ctx, start)
	assert.ErrorIs(t, err, breaks.ErrBreakAlreadyOngoing)

	start.BreakType = breaks.Dinner
	_, err = repo.Insert(ctx, start)
	require.NoError(t, err)

	ongoing, err := repo.ListOngoing(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, ongoing, 2)

	finished, err := repo.Finish(ctx, first.ID, shift.MustParseTimeOfDay("00:05:00"), 15)
	require.NoError(t, err)
	require.NotNil(t, finished.EndTime)
	assert.Equal(t, 15, finished.DurationMinutes)

	_, err = repo.Finish(ctx, first.ID, shift.MustParseTimeOfDay("00:06:00"), 16)
	assert.ErrorIs(t, err, breaks.ErrNoOngoingBreak)
	_, err = repo.UpdateProgress(ctx, first.ID, 20)
	assert.ErrorIs(t, err, breaks.ErrNoOngoingBreak)

	start.BreakType = breaks.Smoke
	_, err = repo.Insert(ctx, start)
	assert.NoError(t, err)
}

func TestBreakRepository_AddToSession(t *testing.T) {
	db := newTestDB(t)
	sessions := postgresql.NewSessionRepository(db)
	repo := postgresql.NewBreakRepository(db)
	ctx := context.Background()
	emp := seedEmployee(t, db, "EMP-011", "Ghazala", "2026-01-05")

	s, _, err := sessions.InsertIfAbsent(ctx, checkedIn(emp, "2026-10-14", "21:00:00"))
	require.NoError(t, err)

	taken, total, err := repo.AddToSession(ctx, s.ID, breaks.Prayer, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, taken)
	assert.Equal(t, 10, total)

	taken, total, err = repo.AddToSession(ctx, s.ID, breaks.Other, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, taken)
	assert.Equal(t, 15, total)

	updated, err := sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Breaks.PrayerCount)
	assert.Equal(t, 10, updated.Breaks.PrayerMinutes)
	assert.Zero(t, updated.Breaks.SmokeCount)
	assert.Equal(t, 15, updated.TotalBreakDurationMinutes)

	_, _, err = repo.AddToSession(ctx, "0192a3b4-0000-7000-8000-00000000dead", breaks.Smoke, 1)
	assert.ErrorIs(t, err, breaks.ErrNoOpenSession)
}
