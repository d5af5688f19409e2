package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/breaks"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type BreakHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	Start(w http.ResponseWriter, r *http.Request)
	Progress(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	Ongoing(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type breakHandlerImpl struct {
	breakService breaks.BreakService
	identity     EmployeeCanonicalizer
}

func NewBreakHandler(breakService breaks.BreakService, identity EmployeeCanonicalizer) BreakHandler {
	return &breakHandlerImpl{
		breakService: breakService,
		identity:     identity,
	}
}

// Record implements BreakHandler.
func (h *breakHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req breaks.RecordRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Break record decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.breakService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Break recorded", result)
}

// Start implements BreakHandler.
func (h *breakHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req breaks.StartRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Break start decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.breakService.Start(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Break started", result)
}

// Progress implements BreakHandler.
func (h *breakHandlerImpl) Progress(w http.ResponseWriter, r *http.Request) {
	var req breaks.ProgressRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Break progress decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.breakService.Progress(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// End implements BreakHandler.
func (h *breakHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	var req breaks.EndRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Break end decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.breakService.End(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break ended", result)
}

// Ongoing implements BreakHandler.
func (h *breakHandlerImpl) Ongoing(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathEmployee(r, h.identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.breakService.Ongoing(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Today implements BreakHandler.
func (h *breakHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathEmployee(r, h.identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.breakService.Today(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements BreakHandler.
func (h *breakHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := breaks.ListFilter{
		Date:       queryString(r, "date"),
		EmployeeID: queryString(r, "employee_id"),
		BreakType:  queryString(r, "break_type"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.breakService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
