package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`
	DueAt       *time.Time `json:"due_at,omitempty" db:"due_at"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	OnSchedule  *bool      `json:"on_schedule,omitempty" db:"on_schedule"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type TimeLog struct {
	ID       uuid.UUID `json:"id" db:"id"`
	TaskID   uuid.UUID `json:"task_id" db:"task_id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Minutes  int       `json:"minutes" db:"minutes"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
}

type CreateTaskRequest struct {
	Title string     `json:"title" validate:"required"`
	Notes *string    `json:"notes,omitempty"`
	DueAt *time.Time `json:"due_at,omitempty"`
}

type LogTimeRequest struct {
	TaskID  string `json:"task_id" validate:"required"`
	Minutes int    `json:"minutes" validate:"required,min=1"`
}
