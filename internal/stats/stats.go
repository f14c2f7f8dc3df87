package stats

type MonthlySummary struct {
	Month          string `json:"month"` // "2026-08"
	TotalIncome    string `json:"total_income"`
	TotalExpense   string `json:"total_expense"`
	SavingsRate    int    `json:"savings_rate"` // whole percent, floored
	ExpenseCount   int    `json:"expense_count"`
	IncomeCount    int    `json:"income_count"`
	TasksCompleted int    `json:"tasks_completed"`
}

type UserStats struct {
	ExpenseCount      int `json:"expense_count"`
	IncomeCount       int `json:"income_count"`
	TasksCompleted    int `json:"tasks_completed"`
	BudgetMonths      int `json:"budget_months"`
	AchievementsCount int `json:"achievements_count"`
}
