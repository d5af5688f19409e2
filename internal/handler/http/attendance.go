package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// EmployeeCanonicalizer maps a path employee id to the canonical employee.
type EmployeeCanonicalizer interface {
	Canonical(ctx context.Context, id string) (string, error)
}

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Monthly(w http.ResponseWriter, r *http.Request)
	GenerateAbsent(w http.ResponseWriter, r *http.Request)
	RepairAll(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	identity          EmployeeCanonicalizer
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, identity EmployeeCanonicalizer) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		identity:          identity,
	}
}

// pathEmployee reads {employee_id} and resolves account ids to employees.
func pathEmployee(r *http.Request, identity EmployeeCanonicalizer) (string, error) {
	return identity.Canonical(r.Context(), chi.URLParam(r, "employee_id"))
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if req.IPAddress == nil && r.RemoteAddr != "" {
		ip := r.RemoteAddr
		req.IPAddress = &ip
	}
	if req.DeviceInfo == nil {
		if ua := r.UserAgent(); ua != "" {
			req.DeviceInfo = &ua
		}
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Check-in successful"
	if result.AutoClosedPrevious != nil {
		message = "Previous session auto-closed, check-in successful"
	}
	response.Created(w, message, result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathEmployee(r, h.identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Today(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Monthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) Monthly(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathEmployee(r, h.identity)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Monthly(r.Context(), attendance.MonthlyFilter{
		EmployeeID: employeeID,
		Year:       queryInt(r, "year"),
		Month:      queryInt(r, "month"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GenerateAbsent implements AttendanceHandler.
func (h *attendanceHandlerImpl) GenerateAbsent(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GenerateAbsent(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Absent records generated", result)
}

// RepairAll implements AttendanceHandler.
func (h *attendanceHandlerImpl) RepairAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.RepairAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Working hours repaired", result)
}
