package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSavingsRate(t *testing.T) {
	// 1000 earned, 800 spent -> 20% saved.
	rate := SavingsRate(decimal.NewFromInt(1000), decimal.NewFromInt(800))
	assert.Equal(t, 20, rate)
}

func TestSavingsRateFloorsFractions(t *testing.T) {
	// 1/3 saved is 33.33..%, reported as 33.
	rate := SavingsRate(decimal.NewFromInt(300), decimal.NewFromInt(200))
	assert.Equal(t, 33, rate)
}

func TestSavingsRateZeroIncome(t *testing.T) {
	assert.Equal(t, 0, SavingsRate(decimal.Zero, decimal.NewFromInt(50)))
	assert.Equal(t, 0, SavingsRate(decimal.NewFromInt(-10), decimal.NewFromInt(50)))
}

func TestSavingsRateOverspendClampsToZero(t *testing.T) {
	rate := SavingsRate(decimal.NewFromInt(500), decimal.NewFromInt(900))
	assert.Equal(t, 0, rate)
}

func TestSavingsTotal(t *testing.T) {
	assert.Equal(t, 150, SavingsTotal(decimal.NewFromInt(400), decimal.NewFromInt(250)))
	assert.Equal(t, 0, SavingsTotal(decimal.NewFromInt(100), decimal.NewFromInt(300)))
}
