package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"user_id" db:"user_id"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty" db:"category_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Description *string         `json:"description,omitempty" db:"description"`
	SpentAt     time.Time       `json:"spent_at" db:"spent_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

type CreateExpenseRequest struct {
	Amount      string     `json:"amount" validate:"required"`
	CategoryID  *string    `json:"category_id,omitempty"`
	Description *string    `json:"description,omitempty"`
	SpentAt     *time.Time `json:"spent_at,omitempty"`
}
