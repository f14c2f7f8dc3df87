package budget

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Budget struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	CategoryID *uuid.UUID      `json:"category_id,omitempty" db:"category_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Month      string          `json:"month" db:"month"` // "2026-08"
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateBudgetRequest struct {
	Amount     string  `json:"amount" validate:"required"`
	CategoryID *string `json:"category_id,omitempty"`
	Month      string  `json:"month" validate:"required"`
}
