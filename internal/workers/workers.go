package workers

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"finQuestAPI/internal/activity"
)

// ActivityEvaluator is the slice of the achievement service the worker needs.
type ActivityEvaluator interface {
	HandleActivityEvent(ctx context.Context, userID uuid.UUID, event activity.Event)
}

// StartBudgetCloseWorker fires a budget_period_closed evaluation for every
// user who kept a budget in the month that just ended. The tick is hourly;
// the close only runs once per month boundary.
func StartBudgetCloseWorker(db *pgxpool.Pool, evaluator ActivityEvaluator) {
	ticker := time.NewTicker(1 * time.Hour)
	lastClosed := time.Now().Format("2006-01")

	go func() {
		for range ticker.C {
			current := time.Now().Format("2006-01")
			if current == lastClosed {
				continue
			}
			closeBudgetPeriods(db, evaluator, lastClosed)
			lastClosed = current
		}
	}()
}

func closeBudgetPeriods(db *pgxpool.Pool, evaluator ActivityEvaluator, month string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("Closing budget period %s...", month)

	rows, err := db.Query(ctx, `SELECT DISTINCT user_id FROM budgets WHERE month = $1`, month)
	if err != nil {
		log.Printf("Error querying budget holders for %s: %v", month, err)
		return
	}
	defer rows.Close()

	var userIDs []uuid.UUID
	for rows.Next() {
		var userID uuid.UUID
		if err := rows.Scan(&userID); err != nil {
			continue
		}
		userIDs = append(userIDs, userID)
	}

	for _, userID := range userIDs {
		evaluator.HandleActivityEvent(ctx, userID, activity.EventBudgetPeriodClosed)
	}

	log.Printf("Closed budget period %s for %d users", month, len(userIDs))
}
