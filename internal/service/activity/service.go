package activity

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
)

// todayLimit caps the rows returned for the current day.
const todayLimit = 1000

// IdentityResolver picks the acting employee for a request.
type IdentityResolver interface {
	FromClaims(ctx context.Context, bodyEmployeeID string) (string, error)
}

type ActivityServiceImpl struct {
	activities activity.Repository
	identity   IdentityResolver
	clock      clock.Clock
}

func NewActivityService(activities activity.Repository, identity IdentityResolver, c clock.Clock) activity.ActivityService {
	return &ActivityServiceImpl{
		activities: activities,
		identity:   identity,
		clock:      c,
	}
}

func toResponses(activities []activity.Activity) []activity.ActivityResponse {
	out := make([]activity.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, activity.NewActivityResponse(a))
	}
	return out
}

// Record implements activity.ActivityService.
func (s *ActivityServiceImpl) Record(ctx context.Context, req activity.RecordRequest) (activity.ActivityResponse, error) {
	employeeID, err := s.identity.FromClaims(ctx, req.EmployeeID)
	if err != nil {
		return activity.ActivityResponse{}, err
	}
	req.EmployeeID = employeeID
	if err := req.Validate(); err != nil {
		return activity.ActivityResponse{}, err
	}

	now := clock.Snapshot(s.clock)
	created, err := s.activities.Insert(ctx, activity.Activity{
		EmployeeID:      employeeID,
		ActivityType:    strings.TrimSpace(req.ActivityType),
		Action:          strings.TrimSpace(req.Action),
		Description:     req.Description,
		OccurredAt:      now.Time,
		ActivityDate:    now.DateString(),
		Location:        req.Location,
		Device:          req.Device,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return activity.ActivityResponse{}, err
	}

	slog.Info("Activity recorded",
		"employee_id", employeeID,
		"activity_type", created.ActivityType,
		"action", created.Action,
	)
	return activity.NewActivityResponse(created), nil
}

// List implements activity.ActivityService.
func (s *ActivityServiceImpl) List(ctx context.Context, filter activity.ListFilter) (activity.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return activity.ListResponse{}, err
	}

	activities, total, err := s.activities.List(ctx, filter)
	if err != nil {
		return activity.ListResponse{}, err
	}

	return activity.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Activities: toResponses(activities),
	}, nil
}

// Today implements activity.ActivityService. The day is the PKT calendar
// date, not the attendance date.
func (s *ActivityServiceImpl) Today(ctx context.Context) (activity.TodayResponse, error) {
	today := clock.Snapshot(s.clock).DateString()

	activities, _, err := s.activities.List(ctx, activity.ListFilter{
		Date:  &today,
		Page:  1,
		Limit: todayLimit,
	})
	if err != nil {
		return activity.TodayResponse{}, err
	}

	return activity.TodayResponse{
		Date:       today,
		Total:      len(activities),
		Activities: toResponses(activities),
	}, nil
}

// Stats implements activity.ActivityService.
func (s *ActivityServiceImpl) Stats(ctx context.Context, filter activity.StatsFilter) ([]activity.TypeStatResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	stats, err := s.activities.Stats(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]activity.TypeStatResponse, 0, len(stats))
	for _, st := range stats {
		out = append(out, activity.TypeStatResponse{
			ActivityType:    st.ActivityType,
			Count:           st.Count,
			UniqueEmployees: st.UniqueEmployees,
		})
	}
	return out, nil
}
