// Package penalty computes late-filing fees and late-payment interest for
// GST returns and TDS statements. Every function is a pure transformation
// of its arguments: no I/O, no clock, no shared mutable state.
package penalty

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ── Status Labels ────────────────────────────────────────────────

const (
	StatusOnTime      = "on time"      // filed on the due date
	StatusGracePeriod = "grace period" // late, but no fee accrues yet
	StatusLate        = "late"         // past grace, fee applies
)

// ── Input / Result ───────────────────────────────────────────────

// Input describes one filing to evaluate.
type Input struct {
	RuleKey    RuleKey
	TaxAmount  decimal.Decimal
	DueDate    civil.Date
	FilingDate civil.Date

	// TaxPaidLate marks a GST liability that was itself paid late, not only
	// the return. Ignored for TDS.
	TaxPaidLate bool

	// DepositDate is when deducted TDS reached the government. Interest is
	// charged only if it falls after DueDate. Ignored for GST.
	DepositDate *civil.Date
}

// Result is the penalty breakdown for one Input.
type Result struct {
	RuleKey             RuleKey
	DaysLate            int
	InterestDays        int
	IsWithinGracePeriod bool
	LateFee             decimal.Decimal
	InterestAmount      decimal.Decimal
	TotalPenalty        decimal.Decimal
	StatusLabel         string
}

// ── Orchestration ────────────────────────────────────────────────

// ComputeGSTPenalty evaluates a GST return. Interest accrues over the days
// the return is late when the tax itself was paid late.
func ComputeGSTPenalty(in Input) (Result, error) {
	return compute(DomainGST, in, func(daysLate int) (int, error) {
		if !in.TaxPaidLate {
			return 0, nil
		}
		return daysLate, nil
	})
}

// ComputeTDSPenalty evaluates a TDS statement. Interest accrues from the
// due date to the deposit date when a late deposit date is given.
func ComputeTDSPenalty(in Input) (Result, error) {
	return compute(DomainTDS, in, func(int) (int, error) {
		if in.DepositDate == nil {
			return 0, nil
		}
		deposit := *in.DepositDate
		if !deposit.IsValid() {
			return 0, fmt.Errorf("%w: deposit date %s", ErrInvalidDate, deposit)
		}
		if !deposit.After(in.DueDate) {
			return 0, nil
		}
		return DaysBetween(in.DueDate, deposit)
	})
}

// compute runs the shared pipeline. interestDays decides, per domain, how
// many days of interest apply once daysLate is known.
func compute(domain Domain, in Input, interestDays func(daysLate int) (int, error)) (Result, error) {
	if in.TaxAmount.IsNegative() {
		return Result{}, fmt.Errorf("%w: tax amount %s is negative", ErrInvalidAmount, in.TaxAmount)
	}

	policy, err := LookupPolicy(in.RuleKey)
	if err != nil {
		return Result{}, err
	}
	if policy.Domain != domain {
		return Result{}, fmt.Errorf("%w: %q is not a %s rule", ErrUnknownRuleKey, in.RuleKey, domain)
	}

	daysLate, err := DaysBetween(in.DueDate, in.FilingDate)
	if err != nil {
		return Result{}, err
	}

	iDays, err := interestDays(daysLate)
	if err != nil {
		return Result{}, err
	}

	fee := ComputeFee(policy, daysLate)
	interest, err := ComputeInterest(in.TaxAmount, policy.InterestAnnualRatePercent, iDays)
	if err != nil {
		return Result{}, err
	}

	return Result{
		RuleKey:             policy.Key,
		DaysLate:            daysLate,
		InterestDays:        iDays,
		IsWithinGracePeriod: fee.IsWithinGracePeriod,
		LateFee:             fee.LateFee,
		InterestAmount:      interest,
		TotalPenalty:        fee.LateFee.Add(interest),
		StatusLabel:         Classify(daysLate, policy.GraceDays),
	}, nil
}

// Classify derives the status label from days late and the grace period.
func Classify(daysLate, graceDays int) string {
	switch {
	case daysLate <= 0:
		return StatusOnTime
	case daysLate <= graceDays:
		return StatusGracePeriod
	default:
		return StatusLate
	}
}
