package utils

import (
	"context"
	"time"

	"github.com/google/uuid"

	"finQuestAPI/internal/activity"
)

// ActivityEvaluator is the one method the triggers need from the achievement
// service, so callers don't have to depend on the whole service package.
type ActivityEvaluator interface {
	HandleActivityEvent(ctx context.Context, userID uuid.UUID, event activity.Event)
}

// FireAchievementCheck runs achievement bookkeeping for an activity write in
// the background. Best-effort: the originating write never waits on it and
// never fails because of it.
func FireAchievementCheck(evaluator ActivityEvaluator, userID uuid.UUID, event activity.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		evaluator.HandleActivityEvent(ctx, userID, event)
	}()
}
