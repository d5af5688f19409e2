package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/rule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RuleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	BreakRules(w http.ResponseWriter, r *http.Request)
	ByType(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ruleHandlerImpl struct {
	ruleService rule.RuleService
}

func NewRuleHandler(ruleService rule.RuleService) RuleHandler {
	return &ruleHandlerImpl{
		ruleService: ruleService,
	}
}

// List implements RuleHandler.
func (h *ruleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rules)
}

// BreakRules implements RuleHandler.
func (h *ruleHandlerImpl) BreakRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleService.BreakRules(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rules)
}

// ByType implements RuleHandler.
func (h *ruleHandlerImpl) ByType(w http.ResponseWriter, r *http.Request) {
	rules, err := h.ruleService.ByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rules)
}

// Get implements RuleHandler.
func (h *ruleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.ruleService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements RuleHandler.
func (h *ruleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req rule.CreateRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Create rule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ruleService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Rule created successfully", result)
}

// Update implements RuleHandler.
func (h *ruleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req rule.UpdateRuleRequest
	if err := decodeJSON(r, &req); err != nil {
		slog.Error("Update rule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.ruleService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Rule updated successfully", result)
}

// Delete implements RuleHandler.
func (h *ruleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ruleService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Rule deleted successfully", nil)
}
