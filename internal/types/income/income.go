package income

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Income struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Source     *string         `json:"source,omitempty" db:"source"`
	ReceivedAt time.Time       `json:"received_at" db:"received_at"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type CreateIncomeRequest struct {
	Amount     string     `json:"amount" validate:"required"`
	Source     *string    `json:"source,omitempty"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}
