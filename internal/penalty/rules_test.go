package penalty

import (
	"errors"
	"testing"
)

func TestLookupPolicy_AllKeys(t *testing.T) {
	for _, key := range ruleOrder {
		p, err := LookupPolicy(key)
		if err != nil {
			t.Fatalf("LookupPolicy(%q): %v", key, err)
		}
		if p.Key != key {
			t.Errorf("policy key = %q, want %q", p.Key, key)
		}
		if p.GraceDays < 0 {
			t.Errorf("%s: negative grace days %d", key, p.GraceDays)
		}
		if !p.DailyRate.IsPositive() {
			t.Errorf("%s: daily rate %s must be positive", key, p.DailyRate)
		}
	}
	if len(ruleTable) != len(ruleOrder) {
		t.Errorf("rule table has %d entries, order lists %d", len(ruleTable), len(ruleOrder))
	}
}

func TestLookupPolicy_Unknown(t *testing.T) {
	_, err := LookupPolicy("gstr99")
	if !errors.Is(err, ErrUnknownRuleKey) {
		t.Errorf("expected ErrUnknownRuleKey, got %v", err)
	}
}

func TestTDSPoliciesShareSchedule(t *testing.T) {
	tds := Policies(DomainTDS)
	if len(tds) != 6 {
		t.Fatalf("got %d TDS policies, want 6", len(tds))
	}
	first := tds[0]
	for _, p := range tds[1:] {
		if p.GraceDays != first.GraceDays || !p.DailyRate.Equal(first.DailyRate) ||
			p.HasCap != first.HasCap || !p.FeeCap.Equal(first.FeeCap) {
			t.Errorf("%s schedule differs from %s", p.Key, first.Key)
		}
	}
}

func TestPolicies_Domain(t *testing.T) {
	gst := Policies(DomainGST)
	want := []RuleKey{GSTR1, GSTR3B, GSTR4, GSTR9}
	if len(gst) != len(want) {
		t.Fatalf("got %d GST policies, want %d", len(gst), len(want))
	}
	for i, p := range gst {
		if p.Key != want[i] {
			t.Errorf("policy %d = %q, want %q", i, p.Key, want[i])
		}
		if p.Domain != DomainGST {
			t.Errorf("%s domain = %q", p.Key, p.Domain)
		}
	}
	if _, capped := mustPolicy(t, GSTR9).Cap(); capped {
		t.Error("GSTR-9 should be uncapped")
	}
}

func TestParseRuleKey(t *testing.T) {
	tests := []struct {
		domain  Domain
		input   string
		want    RuleKey
		wantErr bool
	}{
		{domain: DomainGST, input: "gstr3b", want: GSTR3B},
		{domain: DomainGST, input: "GSTR-3B", want: GSTR3B},
		{domain: DomainGST, input: "  gstr1 ", want: GSTR1},
		{domain: DomainGST, input: "GSTR 9", want: GSTR9},
		{domain: DomainTDS, input: "rent", want: TDSRent},
		{domain: DomainTDS, input: "tds_salary", want: TDSSalary},
		{domain: DomainTDS, input: "Commission", want: TDSCommission},
		{domain: DomainGST, input: "tds_rent", wantErr: true},
		{domain: DomainTDS, input: "gstr1", wantErr: true},
		{domain: DomainGST, input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.domain)+"/"+tt.input, func(t *testing.T) {
			got, err := ParseRuleKey(tt.domain, tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownRuleKey) {
					t.Fatalf("expected ErrUnknownRuleKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRuleKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDomain(t *testing.T) {
	if d, err := ParseDomain("GST"); err != nil || d != DomainGST {
		t.Errorf("ParseDomain(GST) = %q, %v", d, err)
	}
	if d, err := ParseDomain("tds"); err != nil || d != DomainTDS {
		t.Errorf("ParseDomain(tds) = %q, %v", d, err)
	}
	if _, err := ParseDomain("vat"); !errors.Is(err, ErrUnknownRuleKey) {
		t.Errorf("expected ErrUnknownRuleKey, got %v", err)
	}
}

func mustPolicy(t *testing.T, key RuleKey) RulePolicy {
	t.Helper()
	p, err := LookupPolicy(key)
	if err != nil {
		t.Fatalf("LookupPolicy(%q): %v", key, err)
	}
	return p
}
