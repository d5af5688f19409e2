package breaks

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
)

type Repository interface {
	// Insert stores r. A second ongoing break of the same type on the same
	// session fails with ErrBreakAlreadyOngoing.
	Insert(ctx context.Context, r Record) (Record, error)

	// LockLatestOngoing returns the most recently created ongoing break of the
	// type FOR UPDATE, or ErrNoOngoingBreak.
	LockLatestOngoing(ctx context.Context, attendanceID string, breakType BreakType) (Record, error)

	// UpdateProgress sets the duration of a break that is still ongoing.
	UpdateProgress(ctx context.Context, id string, minutes int) (Record, error)

	// Finish sets end time and duration on a break that is still ongoing,
	// returning ErrNoOngoingBreak if another request ended it first.
	Finish(ctx context.Context, id string, end shift.TimeOfDay, minutes int) (Record, error)

	// AddToSession increments the session counters for one finished break
	// and returns the new session totals.
	AddToSession(ctx context.Context, attendanceID string, breakType BreakType, minutes int) (totalTaken int, totalMinutes int, err error)

	ListOngoing(ctx context.Context, attendanceID string) ([]Record, error)
	ListBySession(ctx context.Context, attendanceID string) ([]Record, error)
	List(ctx context.Context, filter ListFilter) ([]Record, int64, error)
}
