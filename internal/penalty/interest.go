package penalty

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const daysPerYear = 365

var percentDaysDivisor = decimal.NewFromInt(100 * daysPerYear)

// ComputeInterest returns simple interest on amount for days at an annual
// percentage rate, prorated daily over a 365-day year and rounded to the
// nearest rupee (half up).
//
//	interest = amount × rate/100 × days/365
func ComputeInterest(amount, annualRatePercent decimal.Decimal, days int) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount %s is negative", ErrInvalidAmount, amount)
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: interest rate %s is negative", ErrInvalidAmount, annualRatePercent)
	}
	if days < 0 {
		return decimal.Zero, fmt.Errorf("%w: %d interest days", ErrInvalidAmount, days)
	}
	if days == 0 {
		return decimal.Zero, nil
	}

	// Multiply before dividing so the single division is the only inexact step.
	numerator := amount.Mul(annualRatePercent).Mul(decimal.NewFromInt(int64(days)))
	return numerator.Div(percentDaysDivisor).Round(0), nil
}
