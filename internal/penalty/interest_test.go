package penalty

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeInterest(t *testing.T) {
	eighteen := decimal.NewFromInt(18)
	tests := []struct {
		name   string
		amount string
		rate   decimal.Decimal
		days   int
		want   int64
	}{
		{name: "zero days", amount: "50000", rate: eighteen, days: 0, want: 0},
		{name: "59 days at 18%", amount: "50000", rate: eighteen, days: 59, want: 1455},
		{name: "full year", amount: "100000", rate: eighteen, days: 365, want: 18000},
		{name: "half rounds up", amount: "1825", rate: decimal.NewFromInt(10), days: 1, want: 1},
		{name: "below half rounds down", amount: "1800", rate: decimal.NewFromInt(10), days: 1, want: 0},
		{name: "fractional amount", amount: "12345.67", rate: eighteen, days: 30, want: 183},
		{name: "zero amount", amount: "0", rate: eighteen, days: 90, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeInterest(decimal.RequireFromString(tt.amount), tt.rate, tt.days)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ComputeInterest(%s, %s, %d) = %s, want %d", tt.amount, tt.rate, tt.days, got, tt.want)
			}
		})
	}
}

func TestComputeInterest_Negative(t *testing.T) {
	eighteen := decimal.NewFromInt(18)
	cases := map[string]func() error{
		"amount": func() error { _, err := ComputeInterest(decimal.NewFromInt(-1), eighteen, 10); return err },
		"rate":   func() error { _, err := ComputeInterest(decimal.NewFromInt(100), decimal.NewFromInt(-1), 10); return err },
		"days":   func() error { _, err := ComputeInterest(decimal.NewFromInt(100), eighteen, -1); return err },
	}
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("expected ErrInvalidAmount, got %v", err)
			}
		})
	}
}

func TestComputeInterest_Monotonic(t *testing.T) {
	rate := decimal.NewFromInt(18)
	prevByAmount := decimal.Zero
	for amount := int64(0); amount <= 200000; amount += 7919 {
		got, err := ComputeInterest(decimal.NewFromInt(amount), rate, 45)
		if err != nil {
			t.Fatal(err)
		}
		if got.LessThan(prevByAmount) {
			t.Fatalf("amount %d: interest %s dropped below %s", amount, got, prevByAmount)
		}
		prevByAmount = got
	}

	prevByDays := decimal.Zero
	for days := 0; days <= 730; days++ {
		got, err := ComputeInterest(decimal.NewFromInt(50000), rate, days)
		if err != nil {
			t.Fatal(err)
		}
		if got.LessThan(prevByDays) {
			t.Fatalf("day %d: interest %s dropped below %s", days, got, prevByDays)
		}
		prevByDays = got
	}
}
