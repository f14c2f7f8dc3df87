package activity

import "finQuestAPI/internal/achievement"

// Event is something a user did that can move an achievement metric.
type Event string

const (
	EventExpenseRecorded    Event = "expense_recorded"
	EventIncomeRecorded     Event = "income_recorded"
	EventTaskCompleted      Event = "task_completed"
	EventBudgetCreated      Event = "budget_created"
	EventBudgetPeriodClosed Event = "budget_period_closed"
)

// Touches lists the requirement types whose metrics this event can move.
// The progress engine only re-evaluates those, not the whole catalog.
func (e Event) Touches() []achievement.RequirementType {
	switch e {
	case EventExpenseRecorded:
		return []achievement.RequirementType{
			achievement.RequirementExpenseCount,
			achievement.RequirementExpenseStreak,
			achievement.RequirementSavingsPercentage,
			achievement.RequirementSavingsTotal,
		}
	case EventIncomeRecorded:
		return []achievement.RequirementType{
			achievement.RequirementIncomeCount,
			achievement.RequirementSavingsPercentage,
			achievement.RequirementSavingsTotal,
		}
	case EventTaskCompleted:
		return []achievement.RequirementType{
			achievement.RequirementTaskCount,
			achievement.RequirementTaskStreak,
			achievement.RequirementTaskEarlyMinutes,
		}
	case EventBudgetCreated:
		return []achievement.RequirementType{
			achievement.RequirementFirstBudget,
			achievement.RequirementBudgetMonths,
		}
	case EventBudgetPeriodClosed:
		return []achievement.RequirementType{
			achievement.RequirementBudgetMonths,
			achievement.RequirementSavingsPercentage,
		}
	}
	return nil
}
