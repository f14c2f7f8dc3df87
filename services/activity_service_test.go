package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsecutiveDaysRunEndingToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 7, 30, 0, 0, time.UTC),
	}

	assert.Equal(t, 3, ConsecutiveDays(dates, now))
}

func TestConsecutiveDaysRunEndingYesterdayStillCounts(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, ConsecutiveDays(dates, now))
}

func TestConsecutiveDaysBrokenRunResetsToZero(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 0, ConsecutiveDays(dates, now))
}

func TestConsecutiveDaysGapInsideRun(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, 2, ConsecutiveDays(dates, now))
}

func TestConsecutiveDaysEmpty(t *testing.T) {
	assert.Equal(t, 0, ConsecutiveDays(nil, time.Now()))
}

func TestConsecutiveDaysMultipleEntriesSameDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	dates := []time.Time{
		time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
	}

	// Distinct days only; the aggregator query deduplicates before calling.
	assert.Equal(t, 2, ConsecutiveDays(dates, now))
}
