package rule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/rule"
)

type RuleServiceImpl struct {
	ruleRepo rule.RuleRepository
}

func NewRuleService(ruleRepo rule.RuleRepository) rule.RuleService {
	return &RuleServiceImpl{ruleRepo: ruleRepo}
}

func toResponses(rules []rule.Rule) []rule.RuleResponse {
	out := make([]rule.RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, rule.NewRuleResponse(r))
	}
	return out
}

// List implements rule.RuleService.
func (s *RuleServiceImpl) List(ctx context.Context) ([]rule.RuleResponse, error) {
	rules, err := s.ruleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(rules), nil
}

// BreakRules implements rule.RuleService.
func (s *RuleServiceImpl) BreakRules(ctx context.Context) ([]rule.BreakRule, error) {
	rules, err := s.ruleRepo.ListActiveByType(ctx, rule.TypeBreakTime)
	if err != nil {
		return nil, err
	}

	out := make([]rule.BreakRule, 0, len(rules))
	for _, r := range rules {
		out = append(out, rule.NewBreakRule(r))
	}
	return out, nil
}

// ByType implements rule.RuleService.
func (s *RuleServiceImpl) ByType(ctx context.Context, ruleType string) ([]rule.RuleResponse, error) {
	t := rule.Type(strings.ToUpper(ruleType))
	if !t.Valid() {
		return nil, rule.ErrInvalidRuleType
	}

	rules, err := s.ruleRepo.ListActiveByType(ctx, t)
	if err != nil {
		return nil, err
	}
	return toResponses(rules), nil
}

// Get implements rule.RuleService.
func (s *RuleServiceImpl) Get(ctx context.Context, id string) (rule.RuleResponse, error) {
	r, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		return rule.RuleResponse{}, err
	}
	return rule.NewRuleResponse(r), nil
}

// Create implements rule.RuleService.
func (s *RuleServiceImpl) Create(ctx context.Context, req rule.CreateRuleRequest) (rule.RuleResponse, error) {
	if err := req.Validate(); err != nil {
		return rule.RuleResponse{}, err
	}

	exists, err := s.ruleRepo.ExistsByName(ctx, req.RuleName, "")
	if err != nil {
		return rule.RuleResponse{}, err
	}
	if exists {
		return rule.RuleResponse{}, rule.ErrRuleNameExists
	}

	newRule := rule.Rule{
		Name:                       strings.TrimSpace(req.RuleName),
		Type:                       rule.Type(req.RuleType),
		Description:                req.Description,
		StartTime:                  req.StartTime,
		EndTime:                    req.EndTime,
		TotalHours:                 req.TotalHours,
		BreakDurationMinutes:       req.BreakDurationMinutes,
		BreakType:                  req.BreakType,
		OvertimeStartsAfterMinutes: req.OvertimeStartsAfterMinutes,
		OvertimeMultiplier:         req.OvertimeMultiplier,
		IsActive:                   true,
		Priority:                   1,
	}
	if req.IsActive != nil {
		newRule.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		newRule.Priority = *req.Priority
	}

	created, err := s.ruleRepo.Create(ctx, newRule)
	if err != nil {
		return rule.RuleResponse{}, err
	}

	slog.Info("Company rule created", "rule_id", created.ID, "rule_type", created.Type)
	return rule.NewRuleResponse(created), nil
}

// Update implements rule.RuleService.
func (s *RuleServiceImpl) Update(ctx context.Context, req rule.UpdateRuleRequest) (rule.RuleResponse, error) {
	if req.IsEmpty() {
		return rule.RuleResponse{}, rule.ErrNoFieldsToUpdate
	}
	if err := req.Validate(); err != nil {
		return rule.RuleResponse{}, err
	}

	if req.RuleName != nil {
		exists, err := s.ruleRepo.ExistsByName(ctx, *req.RuleName, req.ID)
		if err != nil {
			return rule.RuleResponse{}, err
		}
		if exists {
			return rule.RuleResponse{}, rule.ErrRuleNameExists
		}
	}

	updated, err := s.ruleRepo.Update(ctx, req)
	if err != nil {
		return rule.RuleResponse{}, err
	}
	return rule.NewRuleResponse(updated), nil
}

// Delete implements rule.RuleService.
func (s *RuleServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}
	slog.Info("Company rule deleted", "rule_id", id)
	return nil
}
