package penalty

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name      string
		key       RuleKey
		daysLate  int
		wantFee   int64
		wantGrace bool
	}{
		{name: "on time", key: GSTR3B, daysLate: 0, wantFee: 0, wantGrace: true},
		{name: "last grace day", key: GSTR3B, daysLate: 15, wantFee: 0, wantGrace: true},
		{name: "first day past grace rates all days", key: GSTR3B, daysLate: 16, wantFee: 800},
		{name: "no grace", key: GSTR1, daysLate: 1, wantFee: 50},
		{name: "capped", key: GSTR4, daysLate: 100, wantFee: 2000},
		{name: "uncapped", key: GSTR9, daysLate: 365, wantFee: 73000},
		{name: "tds exactly at cap", key: TDSContractor, daysLate: 25, wantFee: 5000},
		{name: "tds below cap", key: TDSRent, daysLate: 10, wantFee: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeFee(mustPolicy(t, tt.key), tt.daysLate)
			if !got.LateFee.Equal(decimal.NewFromInt(tt.wantFee)) {
				t.Errorf("LateFee = %s, want %d", got.LateFee, tt.wantFee)
			}
			if got.IsWithinGracePeriod != tt.wantGrace {
				t.Errorf("IsWithinGracePeriod = %v, want %v", got.IsWithinGracePeriod, tt.wantGrace)
			}
		})
	}
}

func TestComputeFee_MonotonicUpToCap(t *testing.T) {
	for _, key := range ruleOrder {
		policy := mustPolicy(t, key)
		prev := decimal.Zero
		for days := 0; days <= 400; days++ {
			fee := ComputeFee(policy, days).LateFee
			if fee.IsNegative() {
				t.Fatalf("%s day %d: negative fee %s", key, days, fee)
			}
			if fee.LessThan(prev) {
				t.Fatalf("%s day %d: fee %s dropped below %s", key, days, fee, prev)
			}
			if limit, ok := policy.Cap(); ok && fee.GreaterThan(limit) {
				t.Fatalf("%s day %d: fee %s exceeds cap %s", key, days, fee, limit)
			}
			prev = fee
		}
	}
}
