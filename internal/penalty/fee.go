package penalty

import "github.com/shopspring/decimal"

// Fee is the late-fee part of a penalty.
type Fee struct {
	LateFee             decimal.Decimal
	IsWithinGracePeriod bool
}

// ComputeFee rates daysLate against policy.
//
// The grace period is a threshold, not a deduction: once it is exceeded
// every elapsed day is rated, including those inside the grace window.
// The result is capped at the policy's fee cap when one is set.
func ComputeFee(policy RulePolicy, daysLate int) Fee {
	if daysLate <= policy.GraceDays {
		return Fee{LateFee: decimal.Zero, IsWithinGracePeriod: true}
	}

	fee := policy.DailyRate.Mul(decimal.NewFromInt(int64(daysLate)))
	if limit, ok := policy.Cap(); ok && fee.GreaterThan(limit) {
		fee = limit
	}

	return Fee{LateFee: fee.Round(0), IsWithinGracePeriod: false}
}
