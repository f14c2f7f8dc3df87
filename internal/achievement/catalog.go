package achievement

func intp(v int) *int { return &v }

// DefaultCatalog is the published achievement catalog. Definitions are
// immutable once published: changing a requirement means adding a new
// definition, never editing one in place, so historical progress stays valid.
func DefaultCatalog() []Achievement {
	return []Achievement{
		{
			Title:       "First Steps",
			Description: "Record your first expense",
			Icon:        "receipt",
			Requirement: RequirementSpec{Type: RequirementExpenseCount, Count: intp(1)},
		},
		{
			Title:       "Bookkeeper",
			Description: "Record 50 expenses",
			Icon:        "ledger",
			Requirement: RequirementSpec{Type: RequirementExpenseCount, Count: intp(50)},
		},
		{
			Title:       "Chronicler",
			Description: "Record 500 expenses",
			Icon:        "scroll",
			Requirement: RequirementSpec{Type: RequirementExpenseCount, Count: intp(500)},
		},
		{
			Title:       "Payday",
			Description: "Record your first income",
			Icon:        "coins",
			Requirement: RequirementSpec{Type: RequirementIncomeCount, Count: intp(1)},
		},
		{
			Title:       "Steady Earner",
			Description: "Record 12 income entries",
			Icon:        "wallet",
			Requirement: RequirementSpec{Type: RequirementIncomeCount, Count: intp(12)},
		},
		{
			Title:       "Week On The Books",
			Description: "Record an expense 7 days in a row",
			Icon:        "flame",
			Requirement: RequirementSpec{Type: RequirementExpenseStreak, Days: intp(7)},
		},
		{
			Title:       "Habit Formed",
			Description: "Record an expense 30 days in a row",
			Icon:        "calendar",
			Requirement: RequirementSpec{Type: RequirementExpenseStreak, Days: intp(30)},
		},
		{
			Title:       "Task Tamer",
			Description: "Complete 25 tasks",
			Icon:        "check",
			Requirement: RequirementSpec{Type: RequirementTaskCount, Count: intp(25)},
		},
		{
			Title:       "On A Roll",
			Description: "Complete tasks on schedule 5 days in a row",
			Icon:        "bolt",
			Requirement: RequirementSpec{Type: RequirementTaskStreak, Days: intp(5)},
		},
		{
			Title:       "Saver",
			Description: "Reach a 20% savings rate this month",
			Icon:        "piggy-bank",
			Requirement: RequirementSpec{Type: RequirementSavingsPercentage, Percentage: intp(20)},
		},
		{
			Title:       "Half And Half",
			Description: "Reach a 50% savings rate this month",
			Icon:        "trophy",
			Requirement: RequirementSpec{Type: RequirementSavingsPercentage, Percentage: intp(50)},
		},
		{
			Title:       "Nest Egg",
			Description: "Save 1000 in total",
			Icon:        "vault",
			Requirement: RequirementSpec{Type: RequirementSavingsTotal, Threshold: intp(1000)},
		},
		{
			Title:       "Budget Beginner",
			Description: "Create your first budget",
			Icon:        "target",
			Requirement: RequirementSpec{Type: RequirementFirstBudget},
		},
		{
			Title:       "Planner",
			Description: "Keep a budget for 3 months",
			Icon:        "chart",
			Requirement: RequirementSpec{Type: RequirementBudgetMonths, Months: intp(3)},
		},
		{
			Title:       "Early Bird",
			Description: "Finish a task at least 60 minutes before its deadline",
			Icon:        "clock",
			Requirement: RequirementSpec{Type: RequirementTaskEarlyMinutes, Minutes: intp(60)},
		},
	}
}
