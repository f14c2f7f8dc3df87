package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"finQuestAPI/internal/activity"
	"finQuestAPI/internal/stats"
	"finQuestAPI/internal/types/budget"
	"finQuestAPI/internal/types/category"
	"finQuestAPI/internal/types/expense"
	"finQuestAPI/internal/types/income"
	"finQuestAPI/utils"
)

type FinanceService struct {
	db        *pgxpool.Pool
	evaluator utils.ActivityEvaluator
}

func NewFinanceService(db *pgxpool.Pool, evaluator utils.ActivityEvaluator) *FinanceService {
	return &FinanceService{db: db, evaluator: evaluator}
}

func (s *FinanceService) AddExpense(ctx context.Context, userID uuid.UUID, req *expense.CreateExpenseRequest) (*expense.Expense, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("invalid expense amount %q", req.Amount)
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil {
		parsed, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		categoryID = &parsed
	}

	spentAt := time.Now()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	query := `
		INSERT INTO expenses (id, user_id, category_id, amount, description, spent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, user_id, category_id, amount::text, description, spent_at, created_at
	`

	e := &expense.Expense{}
	var amountStr string
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, categoryID, amount, req.Description, spentAt).Scan(
		&e.ID, &e.UserID, &e.CategoryID, &amountStr, &e.Description, &e.SpentAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}
	e.Amount, _ = decimal.NewFromString(amountStr)

	utils.FireAchievementCheck(s.evaluator, userID, activity.EventExpenseRecorded)

	return e, nil
}

func (s *FinanceService) ListExpenses(ctx context.Context, userID uuid.UUID, limit int) ([]*expense.Expense, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, user_id, category_id, amount::text, description, spent_at, created_at
		FROM expenses
		WHERE user_id = $1
		ORDER BY spent_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		e := &expense.Expense{}
		var amountStr string
		if err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &amountStr, &e.Description, &e.SpentAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount, _ = decimal.NewFromString(amountStr)
		expenses = append(expenses, e)
	}

	return expenses, nil
}

func (s *FinanceService) RemoveExpense(ctx context.Context, userID, expenseID uuid.UUID) error {
	result, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, expenseID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("expense not found")
	}
	return nil
}

func (s *FinanceService) AddIncome(ctx context.Context, userID uuid.UUID, req *income.CreateIncomeRequest) (*income.Income, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("invalid income amount %q", req.Amount)
	}

	receivedAt := time.Now()
	if req.ReceivedAt != nil {
		receivedAt = *req.ReceivedAt
	}

	query := `
		INSERT INTO income (id, user_id, amount, source, received_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, user_id, amount::text, source, received_at, created_at
	`

	in := &income.Income{}
	var amountStr string
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, amount, req.Source, receivedAt).Scan(
		&in.ID, &in.UserID, &amountStr, &in.Source, &in.ReceivedAt, &in.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record income: %w", err)
	}
	in.Amount, _ = decimal.NewFromString(amountStr)

	utils.FireAchievementCheck(s.evaluator, userID, activity.EventIncomeRecorded)

	return in, nil
}

func (s *FinanceService) CreateBudget(ctx context.Context, userID uuid.UUID, req *budget.CreateBudgetRequest) (*budget.Budget, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("invalid budget amount %q", req.Amount)
	}

	if _, err := time.Parse("2006-01", req.Month); err != nil {
		return nil, fmt.Errorf("invalid budget month %q, expected YYYY-MM", req.Month)
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil {
		parsed, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("invalid category id: %w", err)
		}
		categoryID = &parsed
	}

	query := `
		INSERT INTO budgets (id, user_id, category_id, amount, month, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id, category_id, month)
		DO UPDATE SET amount = $4, updated_at = NOW()
		RETURNING id, user_id, category_id, amount::text, month, created_at, updated_at
	`

	b := &budget.Budget{}
	var amountStr string
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, categoryID, amount, req.Month).Scan(
		&b.ID, &b.UserID, &b.CategoryID, &amountStr, &b.Month, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	b.Amount, _ = decimal.NewFromString(amountStr)

	utils.FireAchievementCheck(s.evaluator, userID, activity.EventBudgetCreated)

	return b, nil
}

func (s *FinanceService) ListBudgets(ctx context.Context, userID uuid.UUID, month string) ([]*budget.Budget, error) {
	query := `
		SELECT id, user_id, category_id, amount::text, month, created_at, updated_at
		FROM budgets
		WHERE user_id = $1 AND ($2 = '' OR month = $2)
		ORDER BY month DESC
	`

	rows, err := s.db.Query(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		b := &budget.Budget{}
		var amountStr string
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &amountStr, &b.Month, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		b.Amount, _ = decimal.NewFromString(amountStr)
		budgets = append(budgets, b)
	}

	return budgets, nil
}

func (s *FinanceService) GetCategories(ctx context.Context) ([]*category.Category, error) {
	query := `
		SELECT id, name, slug, icon, display_order, is_active, created_at
		FROM categories
		WHERE is_active = true
		ORDER BY display_order ASC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		c := &category.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Icon, &c.DisplayOrder, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	return categories, nil
}

func (s *FinanceService) GetMonthlySummary(ctx context.Context, userID uuid.UUID, month string) (*stats.MonthlySummary, error) {
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}

	query := `
	SELECT
		COALESCE((SELECT SUM(amount) FROM income
			WHERE user_id = $1 AND to_char(received_at, 'YYYY-MM') = $2), 0)::text,
		COALESCE((SELECT SUM(amount) FROM expenses
			WHERE user_id = $1 AND to_char(spent_at, 'YYYY-MM') = $2), 0)::text,
		COALESCE((SELECT COUNT(*) FROM expenses
			WHERE user_id = $1 AND to_char(spent_at, 'YYYY-MM') = $2), 0),
		COALESCE((SELECT COUNT(*) FROM income
			WHERE user_id = $1 AND to_char(received_at, 'YYYY-MM') = $2), 0),
		COALESCE((SELECT COUNT(*) FROM tasks
			WHERE user_id = $1 AND completed = true AND to_char(completed_at, 'YYYY-MM') = $2), 0)
	`

	summary := &stats.MonthlySummary{Month: month}
	var incomeStr, expenseStr string
	err := s.db.QueryRow(ctx, query, userID, month).Scan(
		&incomeStr, &expenseStr, &summary.ExpenseCount, &summary.IncomeCount, &summary.TasksCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly summary: %w", err)
	}

	totalIncome, err := decimal.NewFromString(incomeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse income sum: %w", err)
	}
	totalExpense, err := decimal.NewFromString(expenseStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense sum: %w", err)
	}

	summary.TotalIncome = totalIncome.StringFixed(2)
	summary.TotalExpense = totalExpense.StringFixed(2)
	summary.SavingsRate = utils.SavingsRate(totalIncome, totalExpense)

	return summary, nil
}
