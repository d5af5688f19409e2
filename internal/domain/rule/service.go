package rule

import "context"

type RuleService interface {
	List(ctx context.Context) ([]RuleResponse, error)
	BreakRules(ctx context.Context) ([]BreakRule, error)
	ByType(ctx context.Context, ruleType string) ([]RuleResponse, error)
	Get(ctx context.Context, id string) (RuleResponse, error)
	Create(ctx context.Context, req CreateRuleRequest) (RuleResponse, error)
	Update(ctx context.Context, req UpdateRuleRequest) (RuleResponse, error)
	Delete(ctx context.Context, id string) error
}
