package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/worktime"
)

// SessionRepository is the attendance store. A "live" session is one that has
// not been superseded by stale recovery; at most one exists per employee and
// date. Lock* methods take a row lock and must run inside a transaction.
type SessionRepository interface {
	// InsertIfAbsent inserts s unless a live session already exists for its
	// employee and date. inserted is false on conflict, with a zero Session.
	InsertIfAbsent(ctx context.Context, s Session) (created Session, inserted bool, err error)

	// LockLive returns the live session for employee and date FOR UPDATE,
	// or ErrSessionNotFound.
	LockLive(ctx context.Context, employeeID string, date string) (Session, error)

	// LockOpen is LockLive restricted to checked-in, not checked-out rows.
	LockOpen(ctx context.Context, employeeID string, date string) (Session, error)

	// FindLive reads the live session without locking.
	FindLive(ctx context.Context, employeeID string, date string) (Session, error)

	GetByID(ctx context.Context, id string) (Session, error)

	// Promote turns a placeholder or check-in-less session into a checked-in one.
	Promote(ctx context.Context, id string, checkIn shift.TimeOfDay, at time.Time, lateness shift.Lateness, remarks *string) (Session, error)

	// Close stores the check-out and working time. It only touches a row that
	// is still open and returns ErrAlreadyCheckedOut otherwise.
	Close(ctx context.Context, id string, checkOut shift.TimeOfDay, result worktime.Result, remarks *string) (Session, error)

	// Supersede takes a closed stale session out of the live slot.
	Supersede(ctx context.Context, id string, at time.Time) error

	// SaveWorkingTime writes recomputed working time to a row that still needs
	// repair. updated is false when the row no longer qualifies.
	SaveWorkingTime(ctx context.Context, id string, result worktime.Result) (updated bool, err error)

	// LockRepairCandidates returns closed Present/Late rows with zero or null
	// gross minutes, skipping rows locked by other transactions.
	LockRepairCandidates(ctx context.Context, limit int) ([]Session, error)

	// LockStaleOpen returns open live sessions checked in before cutoff,
	// skipping rows locked by other transactions.
	LockStaleOpen(ctx context.Context, cutoff time.Time, limit int) ([]Session, error)

	// InsertAbsent creates Absent rows for the dates that have no live row
	// and returns how many were created.
	InsertAbsent(ctx context.Context, employeeID string, dates []string) (int, error)

	// ListByEmployeeBetween returns live sessions in [from, to] by date.
	ListByEmployeeBetween(ctx context.Context, employeeID string, from, to string) ([]Session, error)

	// ListBreaks returns the breaks of the given sessions ordered by start.
	ListBreaks(ctx context.Context, sessionIDs []string) (map[string][]BreakSummary, error)
}

// EmployeeDirectory lists employees attendance is tracked for.
type EmployeeDirectory interface {
	ListActive(ctx context.Context) ([]ActiveEmployee, error)
}
