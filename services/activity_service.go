package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"finQuestAPI/internal/achievement"
	"finQuestAPI/utils"
)

// ActivityService turns raw user activity into the integer metrics the
// progress engine compares against requirement parameters. Every query here
// is a read; the engine owns all achievement writes.
type ActivityService struct {
	db *pgxpool.Pool
}

func NewActivityService(db *pgxpool.Pool) *ActivityService {
	return &ActivityService{db: db}
}

func (s *ActivityService) Metric(ctx context.Context, userID uuid.UUID, t achievement.RequirementType) (int, error) {
	switch t {
	case achievement.RequirementExpenseCount:
		return s.count(ctx, `SELECT COUNT(*) FROM expenses WHERE user_id = $1`, userID)
	case achievement.RequirementIncomeCount:
		return s.count(ctx, `SELECT COUNT(*) FROM income WHERE user_id = $1`, userID)
	case achievement.RequirementTaskCount:
		return s.count(ctx, `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND completed = true`, userID)
	case achievement.RequirementFirstBudget:
		return s.count(ctx, `SELECT COUNT(*) FROM budgets WHERE user_id = $1`, userID)
	case achievement.RequirementBudgetMonths:
		return s.count(ctx, `SELECT COUNT(DISTINCT month) FROM budgets WHERE user_id = $1`, userID)
	case achievement.RequirementExpenseStreak:
		return s.dayStreak(ctx, `SELECT DISTINCT spent_at::date FROM expenses WHERE user_id = $1 ORDER BY 1 DESC`, userID)
	case achievement.RequirementTaskStreak:
		return s.dayStreak(ctx, `
			SELECT DISTINCT completed_at::date FROM tasks
			WHERE user_id = $1 AND completed = true AND on_schedule = true
			ORDER BY 1 DESC`, userID)
	case achievement.RequirementSavingsPercentage:
		return s.savingsRate(ctx, userID)
	case achievement.RequirementSavingsTotal:
		return s.savingsTotal(ctx, userID)
	case achievement.RequirementTaskEarlyMinutes:
		return s.bestDeadlineMargin(ctx, userID)
	}

	return 0, fmt.Errorf("%w: no metric for requirement type %q", achievement.ErrInvalidRequirement, t)
}

func (s *ActivityService) count(ctx context.Context, query string, userID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}
	return n, nil
}

func (s *ActivityService) dayStreak(ctx context.Context, query string, userID uuid.UUID) (int, error) {
	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch activity dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return 0, fmt.Errorf("failed to scan activity date: %w", err)
		}
		dates = append(dates, d)
	}

	return ConsecutiveDays(dates, time.Now()), nil
}

// ConsecutiveDays counts the current run of back-to-back days ending today or
// yesterday. Dates must be distinct calendar days sorted descending. A run
// that ended before yesterday is a broken streak and counts as 0.
func ConsecutiveDays(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	day := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}

	today := day(now)
	expected := today
	if !day(dates[0]).Equal(today) {
		// The streak survives until the day is over, so a run ending
		// yesterday still counts.
		expected = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range dates {
		if !day(d).Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}

	return streak
}

func (s *ActivityService) savingsRate(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM income
				WHERE user_id = $1 AND date_trunc('month', received_at) = date_trunc('month', CURRENT_DATE)), 0)::text,
			COALESCE((SELECT SUM(amount) FROM expenses
				WHERE user_id = $1 AND date_trunc('month', spent_at) = date_trunc('month', CURRENT_DATE)), 0)::text
	`

	income, expense, err := s.sums(ctx, query, userID)
	if err != nil {
		return 0, err
	}

	return utils.SavingsRate(income, expense), nil
}

func (s *ActivityService) savingsTotal(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(amount) FROM income WHERE user_id = $1), 0)::text,
			COALESCE((SELECT SUM(amount) FROM expenses WHERE user_id = $1), 0)::text
	`

	income, expense, err := s.sums(ctx, query, userID)
	if err != nil {
		return 0, err
	}

	return utils.SavingsTotal(income, expense), nil
}

func (s *ActivityService) sums(ctx context.Context, query string, userID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var incomeStr, expenseStr string
	if err := s.db.QueryRow(ctx, query, userID).Scan(&incomeStr, &expenseStr); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum amounts: %w", err)
	}

	income, err := decimal.NewFromString(incomeStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to parse income sum %q: %w", incomeStr, err)
	}
	expense, err := decimal.NewFromString(expenseStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to parse expense sum %q: %w", expenseStr, err)
	}

	return income, expense, nil
}

func (s *ActivityService) bestDeadlineMargin(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COALESCE(MAX(EXTRACT(EPOCH FROM (due_at - completed_at)) / 60), 0)::int
		FROM tasks
		WHERE user_id = $1 AND completed = true AND due_at IS NOT NULL AND completed_at <= due_at
	`

	var minutes int
	if err := s.db.QueryRow(ctx, query, userID).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("failed to compute deadline margin: %w", err)
	}

	return minutes, nil
}
