package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finQuestAPI/internal/achievement"
)

func TestTouchesMapsEventsToRequirementTypes(t *testing.T) {
	assert.Contains(t, EventExpenseRecorded.Touches(), achievement.RequirementExpenseCount)
	assert.Contains(t, EventExpenseRecorded.Touches(), achievement.RequirementExpenseStreak)
	assert.Contains(t, EventTaskCompleted.Touches(), achievement.RequirementTaskStreak)
	assert.Contains(t, EventBudgetCreated.Touches(), achievement.RequirementFirstBudget)

	assert.NotContains(t, EventTaskCompleted.Touches(), achievement.RequirementExpenseCount)
}

func TestTouchesUnknownEvent(t *testing.T) {
	assert.Empty(t, Event("password_changed").Touches())
}

func TestEveryRegisteredTypeIsReachable(t *testing.T) {
	reg := achievement.DefaultRegistry()

	reachable := make(map[achievement.RequirementType]bool)
	events := []Event{
		EventExpenseRecorded,
		EventIncomeRecorded,
		EventTaskCompleted,
		EventBudgetCreated,
		EventBudgetPeriodClosed,
	}
	for _, e := range events {
		for _, rt := range e.Touches() {
			assert.True(t, reg.Known(rt), "event %s touches unregistered type %s", e, rt)
			reachable[rt] = true
		}
	}

	// A registered type no event can move would be dead catalog weight.
	for _, rt := range []achievement.RequirementType{
		achievement.RequirementExpenseCount,
		achievement.RequirementIncomeCount,
		achievement.RequirementTaskCount,
		achievement.RequirementExpenseStreak,
		achievement.RequirementTaskStreak,
		achievement.RequirementSavingsPercentage,
		achievement.RequirementSavingsTotal,
		achievement.RequirementBudgetMonths,
		achievement.RequirementTaskEarlyMinutes,
		achievement.RequirementFirstBudget,
	} {
		assert.True(t, reachable[rt], "type %s is not reachable from any event", rt)
	}
}
