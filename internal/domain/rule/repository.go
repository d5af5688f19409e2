package rule

import "context"

type RuleRepository interface {
	Create(ctx context.Context, r Rule) (Rule, error)
	GetByID(ctx context.Context, id string) (Rule, error)
	// ListActive orders by priority ascending, then newest first.
	ListActive(ctx context.Context) ([]Rule, error)
	ListActiveByType(ctx context.Context, t Type) ([]Rule, error)
	ExistsByName(ctx context.Context, name string, excludeID string) (bool, error)
	Update(ctx context.Context, req UpdateRuleRequest) (Rule, error)
	Delete(ctx context.Context, id string) error
}
