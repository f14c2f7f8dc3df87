package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"finQuestAPI/internal/activity"
	"finQuestAPI/internal/types/task"
	"finQuestAPI/utils"
)

type TaskService struct {
	db        *pgxpool.Pool
	evaluator utils.ActivityEvaluator
}

func NewTaskService(db *pgxpool.Pool, evaluator utils.ActivityEvaluator) *TaskService {
	return &TaskService{db: db, evaluator: evaluator}
}

func (s *TaskService) CreateTask(ctx context.Context, userID uuid.UUID, req *task.CreateTaskRequest) (*task.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	query := `
		INSERT INTO tasks (id, user_id, title, notes, due_at, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, false, NOW(), NOW())
		RETURNING id, user_id, title, notes, due_at, completed, completed_at, on_schedule, created_at, updated_at
	`

	t := &task.Task{}
	err := s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title, req.Notes, req.DueAt).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Notes, &t.DueAt,
		&t.Completed, &t.CompletedAt, &t.OnSchedule, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// CompleteTask marks a task done exactly once. On-schedule means the task
// either had no deadline or was finished at or before it; the completion
// timestamp is what the deadline-margin metric is computed from.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*task.Task, error) {
	now := time.Now()

	query := `
		UPDATE tasks
		SET completed = true,
			completed_at = $3,
			on_schedule = (due_at IS NULL OR $3 <= due_at),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND completed = false
		RETURNING id, user_id, title, notes, due_at, completed, completed_at, on_schedule, created_at, updated_at
	`

	t := &task.Task{}
	err := s.db.QueryRow(ctx, query, taskID, userID, now).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Notes, &t.DueAt,
		&t.Completed, &t.CompletedAt, &t.OnSchedule, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("task not found or already completed: %w", err)
	}

	utils.FireAchievementCheck(s.evaluator, userID, activity.EventTaskCompleted)

	return t, nil
}

func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, includeCompleted bool) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, title, notes, due_at, completed, completed_at, on_schedule, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND (completed = false OR $2)
		ORDER BY due_at ASC NULLS LAST, created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID, includeCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		t := &task.Task{}
		err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Notes, &t.DueAt,
			&t.Completed, &t.CompletedAt, &t.OnSchedule, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (s *TaskService) LogTime(ctx context.Context, userID uuid.UUID, req *task.LogTimeRequest) (*task.TimeLog, error) {
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	if req.Minutes <= 0 {
		return nil, fmt.Errorf("minutes must be positive")
	}

	query := `
		INSERT INTO time_logs (id, task_id, user_id, minutes, logged_at)
		SELECT $1, $2, $3, $4, NOW()
		WHERE EXISTS (SELECT 1 FROM tasks WHERE id = $2 AND user_id = $3)
		RETURNING id, task_id, user_id, minutes, logged_at
	`

	entry := &task.TimeLog{}
	err = s.db.QueryRow(ctx, query, uuid.New(), taskID, userID, req.Minutes).Scan(
		&entry.ID, &entry.TaskID, &entry.UserID, &entry.Minutes, &entry.LoggedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log time: %w", err)
	}

	return entry, nil
}
