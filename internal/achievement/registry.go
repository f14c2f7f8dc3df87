package achievement

import "fmt"

// ProgressPolicy tells the engine how recorded progress moves between
// evaluation ticks. Accumulation keeps the best-seen metric; streaks track
// the instantaneous streak length and are allowed to reset.
type ProgressPolicy string

const (
	PolicyAccumulate ProgressPolicy = "accumulate"
	PolicyStreak     ProgressPolicy = "streak"
)

// Rule binds a requirement type to its canonical key token and progress
// policy. Tokens must stay stable forever: derived keys are the join key to
// externally maintained display content.
type Rule struct {
	Token  string
	Policy ProgressPolicy
}

// Registry is the closed, versioned set of requirement types. It is built
// once and never mutated, so new types are added by constructing a new
// version rather than editing a live lookup table.
type Registry struct {
	version int
	rules   map[RequirementType]Rule
}

func NewRegistry(version int, rules map[RequirementType]Rule) *Registry {
	copied := make(map[RequirementType]Rule, len(rules))
	for t, r := range rules {
		copied[t] = r
	}
	return &Registry{version: version, rules: copied}
}

// DefaultRegistry returns registry version 1, the set the shipped catalog is
// built against.
func DefaultRegistry() *Registry {
	return NewRegistry(1, map[RequirementType]Rule{
		RequirementExpenseCount:      {Token: "EXPENSE_COUNT", Policy: PolicyAccumulate},
		RequirementIncomeCount:       {Token: "INCOME_COUNT", Policy: PolicyAccumulate},
		RequirementTaskCount:         {Token: "TASK_COUNT", Policy: PolicyAccumulate},
		RequirementExpenseStreak:     {Token: "EXPENSE_STREAK", Policy: PolicyStreak},
		RequirementTaskStreak:        {Token: "TASK_STREAK", Policy: PolicyStreak},
		RequirementSavingsPercentage: {Token: "SAVINGS_PERCENTAGE", Policy: PolicyAccumulate},
		RequirementSavingsTotal:      {Token: "SAVINGS_TOTAL", Policy: PolicyAccumulate},
		RequirementBudgetMonths:      {Token: "BUDGET_MONTHS", Policy: PolicyAccumulate},
		RequirementTaskEarlyMinutes:  {Token: "TASK_EARLY_MINUTES", Policy: PolicyAccumulate},
		RequirementFirstBudget:       {Token: "FIRST_BUDGET", Policy: PolicyAccumulate},
	})
}

func (r *Registry) Version() int {
	return r.version
}

func (r *Registry) Known(t RequirementType) bool {
	_, ok := r.rules[t]
	return ok
}

func (r *Registry) Policy(t RequirementType) (ProgressPolicy, error) {
	rule, ok := r.rules[t]
	if !ok {
		return "", fmt.Errorf("%w: requirement type %q", ErrInvalidRequirement, t)
	}
	return rule.Policy, nil
}
