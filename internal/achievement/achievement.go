package achievement

import (
	"time"

	"github.com/google/uuid"
)

type RequirementType string

const (
	RequirementExpenseCount      RequirementType = "expense_count"
	RequirementIncomeCount       RequirementType = "income_count"
	RequirementTaskCount         RequirementType = "task_count"
	RequirementExpenseStreak     RequirementType = "expense_streak"
	RequirementTaskStreak        RequirementType = "task_streak"
	RequirementSavingsPercentage RequirementType = "savings_percentage"
	RequirementSavingsTotal      RequirementType = "savings_total"
	RequirementBudgetMonths      RequirementType = "budget_months"
	RequirementTaskEarlyMinutes  RequirementType = "task_early_minutes"
	RequirementFirstBudget       RequirementType = "first_budget"
)

// RequirementSpec is the parameterized rule a definition is built from.
// Parameter fields are pointers so an absent parameter and an explicit 0
// stay distinct inputs all the way into key derivation.
type RequirementSpec struct {
	Type       RequirementType `json:"type" db:"requirement_type"`
	Count      *int            `json:"count,omitempty" db:"req_count"`
	Days       *int            `json:"days,omitempty" db:"req_days"`
	Threshold  *int            `json:"threshold,omitempty" db:"req_threshold"`
	Percentage *int            `json:"percentage,omitempty" db:"req_percentage"`
	Months     *int            `json:"months,omitempty" db:"req_months"`
	Minutes    *int            `json:"minutes,omitempty" db:"req_minutes"`
}

// Parameter returns the populated parameter value, picking the field by the
// fixed precedence order: count, days, threshold, percentage, months, minutes.
// Only the first populated field in that order counts. The order is a
// documented contract; changing it changes every derived key.
func (s RequirementSpec) Parameter() (int, bool) {
	for _, p := range []*int{s.Count, s.Days, s.Threshold, s.Percentage, s.Months, s.Minutes} {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}

// Target is the satisfaction threshold for the progress engine. Parameterless
// requirements complete on the first qualifying unit of activity.
func (s RequirementSpec) Target() int {
	if v, ok := s.Parameter(); ok {
		return v
	}
	return 1
}

type Achievement struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description" db:"description"`
	Icon         string          `json:"icon" db:"icon"`
	ImageURL     *string         `json:"image_url,omitempty" db:"image_url"`
	Requirement  RequirementSpec `json:"requirement"`
	CanonicalKey string          `json:"canonical_key" db:"canonical_key"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

type UserAchievement struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID  `json:"achievement_id" db:"achievement_id"`
	CanonicalKey  string     `json:"canonical_key" db:"canonical_key"`
	Progress      int        `json:"progress" db:"progress"`
	Completed     bool       `json:"completed" db:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

type AchievementWithStatus struct {
	Achievement
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RecordSnapshot is what the backfill batch reads per record: the requirement
// snapshot to derive from and the key currently stored, nothing else.
type RecordSnapshot struct {
	RecordID     uuid.UUID
	CanonicalKey string
	Requirement  RequirementSpec
}

// BackfillReport is what the canonical-key recompute batch returns.
type BackfillReport struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
