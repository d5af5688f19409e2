package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/activity"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type ActivityHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	All(w http.ResponseWriter, r *http.Request)
	ByEmployee(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type activityHandlerImpl struct {
	activityService activity.ActivityService
	identity        EmployeeCanonicalizer
}

func NewActivityHandler(activityService activity.ActivityService, identity EmployeeCanonicalizer) ActivityHandler {
	return &activityHandlerImpl{
		activityService: activityService,
		identity:        identity,
	}
}

// Record implements ActivityHandler.
func (h *activityHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req activity.RecordRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Activity record decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.activityService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Activity recorded", result)
}

// All implements ActivityHandler.
func (h *activityHandlerImpl) All(w http.ResponseWriter, r *http.Request) {
	filter := activity.ListFilter{
		EmployeeID:   queryString(r, "employee_id"),
		ActivityType: queryString(r, "activity_type"),
		StartDate:    queryString(r, "start_date"),
		EndDate:      queryString(r, "end_date"),
		Page:         queryInt(r, "page"),
		Limit:        queryInt(r, "limit"),
	}
	if filter.EmployeeID != nil {
		id, err := h.identity.Canonical(r.Context(), *filter.EmployeeID)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.EmployeeID = &id
	}

	h.list(w, r, filter)
}

// ByEmployee implements ActivityHandler.
func (h *activityHandlerImpl) ByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathEmployee(r, h.identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.list(w, r, activity.ListFilter{
		EmployeeID: &employeeID,
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	})
}

func (h *activityHandlerImpl) list(w http.ResponseWriter, r *http.Request, filter activity.ListFilter) {
	result, err := h.activityService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements ActivityHandler.
func (h *activityHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stats implements ActivityHandler.
func (h *activityHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.activityService.Stats(r.Context(), activity.StatsFilter{
		StartDate: queryString(r, "start_date"),
		EndDate:   queryString(r, "end_date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
