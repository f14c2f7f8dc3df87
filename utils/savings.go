package utils

import "github.com/shopspring/decimal"

// SavingsRate returns ((income - expense) / income) * 100 floored to a whole
// percent. Zero income resolves to 0%, never a division error; a negative
// rate is clamped to 0 because achievement progress is non-negative.
func SavingsRate(income, expense decimal.Decimal) int {
	if income.LessThanOrEqual(decimal.Zero) {
		return 0
	}

	rate := income.Sub(expense).Div(income).Mul(decimal.NewFromInt(100))
	if rate.IsNegative() {
		return 0
	}

	return int(rate.IntPart())
}

// SavingsTotal returns all-time income minus expense in whole currency
// units, clamped at 0.
func SavingsTotal(income, expense decimal.Decimal) int {
	diff := income.Sub(expense)
	if diff.IsNegative() {
		return 0
	}
	return int(diff.IntPart())
}
