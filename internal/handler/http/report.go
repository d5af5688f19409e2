package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
)

type ReportHandler interface {
	All(w http.ResponseWriter, r *http.Request)
	AllWithAbsent(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Overtime(w http.ResponseWriter, r *http.Request)
	ExportOvertime(w http.ResponseWriter, r *http.Request)
	ExportAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func attendanceFilter(r *http.Request) report.AttendanceFilter {
	return report.AttendanceFilter{
		Date:   queryString(r, "date"),
		Status: queryString(r, "status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
}

func rangeFilter(r *http.Request) report.RangeFilter {
	return report.RangeFilter{
		EmployeeID: queryString(r, "employee_id"),
		StartDate:  queryString(r, "start_date"),
		EndDate:    queryString(r, "end_date"),
	}
}

// All handles GET /attendance/all
func (h *reportHandlerImpl) All(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.All(r.Context(), attendanceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AllWithAbsent handles GET /attendance/all-with-absent
func (h *reportHandlerImpl) AllWithAbsent(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AllWithAbsent(r.Context(), attendanceFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Summary handles GET /attendance/summary
func (h *reportHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Summary(r.Context(), rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Overtime handles GET /attendance/overtime
func (h *reportHandlerImpl) Overtime(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Overtime(r.Context(), rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ExportOvertime handles GET /attendance/overtime/export
func (h *reportHandlerImpl) ExportOvertime(w http.ResponseWriter, r *http.Request) {
	out, err := h.reportService.ExportOvertime(r.Context(), rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, out.Filename, out.ContentType, out.Content)
}

// ExportAttendance handles GET /attendance/export
func (h *reportHandlerImpl) ExportAttendance(w http.ResponseWriter, r *http.Request) {
	out, err := h.reportService.ExportAttendance(r.Context(), rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.File(w, out.Filename, out.ContentType, out.Content)
}
