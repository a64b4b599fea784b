package penalty

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ── Domains ──────────────────────────────────────────────────────

// Domain groups rule keys by the calculator that owns them.
type Domain string

const (
	DomainGST Domain = "gst"
	DomainTDS Domain = "tds"
)

// ParseDomain validates a domain slug such as "gst" or "TDS".
func ParseDomain(s string) (Domain, error) {
	switch d := Domain(strings.ToLower(strings.TrimSpace(s))); d {
	case DomainGST, DomainTDS:
		return d, nil
	}
	return "", fmt.Errorf("%w: domain %q", ErrUnknownRuleKey, s)
}

// ── Rule Keys ────────────────────────────────────────────────────

// RuleKey identifies one return type (GST) or deduction category (TDS).
// The set is closed: only the constants below have a policy.
type RuleKey string

const (
	GSTR1  RuleKey = "gstr1"  // outward supplies, monthly/quarterly
	GSTR3B RuleKey = "gstr3b" // summary return, monthly/quarterly
	GSTR4  RuleKey = "gstr4"  // composition scheme, annual
	GSTR9  RuleKey = "gstr9"  // annual return

	TDSSalary       RuleKey = "tds_salary"
	TDSContractor   RuleKey = "tds_contractor"
	TDSRent         RuleKey = "tds_rent"
	TDSProfessional RuleKey = "tds_professional"
	TDSCommission   RuleKey = "tds_commission"
	TDSOther        RuleKey = "tds_other"
)

// ── Rule Policy ──────────────────────────────────────────────────

// RulePolicy is the fee and interest schedule for a single rule key.
// Amounts are whole rupees.
type RulePolicy struct {
	Key                       RuleKey
	Domain                    Domain
	DisplayName               string
	GraceDays                 int
	DailyRate                 decimal.Decimal
	FeeCap                    decimal.Decimal // meaningful only when HasCap
	HasCap                    bool
	InterestAnnualRatePercent decimal.Decimal
}

// Cap returns the fee cap and whether one applies.
func (p RulePolicy) Cap() (decimal.Decimal, bool) {
	return p.FeeCap, p.HasCap
}

// ── Rule Table ───────────────────────────────────────────────────
// Built once at package init and never written afterwards, so concurrent
// readers need no locking.

var gstInterestRate = decimal.NewFromInt(18)

// TDS interest for late deposit is 1.5% per month, i.e. 18% a year.
var tdsInterestRate = decimal.NewFromInt(18)

var ruleOrder = []RuleKey{
	GSTR1, GSTR3B, GSTR4, GSTR9,
	TDSSalary, TDSContractor, TDSRent, TDSProfessional, TDSCommission, TDSOther,
}

var ruleTable = buildRuleTable()

func buildRuleTable() map[RuleKey]RulePolicy {
	gst := func(key RuleKey, name string, grace int, rate int64, feeCap int64) RulePolicy {
		p := RulePolicy{
			Key:                       key,
			Domain:                    DomainGST,
			DisplayName:               name,
			GraceDays:                 grace,
			DailyRate:                 decimal.NewFromInt(rate),
			InterestAnnualRatePercent: gstInterestRate,
		}
		if feeCap > 0 {
			p.FeeCap, p.HasCap = decimal.NewFromInt(feeCap), true
		}
		return p
	}
	// Every TDS category shares one schedule; the keys stay distinct so a
	// computed result records which category it was rated under.
	tds := func(key RuleKey, name string) RulePolicy {
		return RulePolicy{
			Key:                       key,
			Domain:                    DomainTDS,
			DisplayName:               name,
			GraceDays:                 0,
			DailyRate:                 decimal.NewFromInt(200),
			FeeCap:                    decimal.NewFromInt(5000),
			HasCap:                    true,
			InterestAnnualRatePercent: tdsInterestRate,
		}
	}

	policies := []RulePolicy{
		gst(GSTR1, "GSTR-1", 0, 50, 10000),
		gst(GSTR3B, "GSTR-3B", 15, 50, 10000),
		gst(GSTR4, "GSTR-4", 0, 50, 2000),
		gst(GSTR9, "GSTR-9", 0, 200, 0),
		tds(TDSSalary, "Salary"),
		tds(TDSContractor, "Contractor"),
		tds(TDSRent, "Rent"),
		tds(TDSProfessional, "Professional Fees"),
		tds(TDSCommission, "Commission"),
		tds(TDSOther, "Other"),
	}

	table := make(map[RuleKey]RulePolicy, len(policies))
	for _, p := range policies {
		table[p.Key] = p
	}
	return table
}

// LookupPolicy returns the policy for key.
func LookupPolicy(key RuleKey) (RulePolicy, error) {
	p, ok := ruleTable[key]
	if !ok {
		return RulePolicy{}, fmt.Errorf("%w: %q", ErrUnknownRuleKey, key)
	}
	return p, nil
}

// Policies lists the policies of a domain in table order.
func Policies(domain Domain) []RulePolicy {
	var out []RulePolicy
	for _, key := range ruleOrder {
		if p := ruleTable[key]; p.Domain == domain {
			out = append(out, p)
		}
	}
	return out
}

// ParseRuleKey turns user input such as "GSTR-3B" or "rent" into a RuleKey
// of the given domain. Keys of another domain are rejected.
func ParseRuleKey(domain Domain, s string) (RuleKey, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", " ", "").Replace(norm)
	if domain == DomainTDS && !strings.HasPrefix(norm, "tds_") {
		norm = "tds_" + norm
	}

	p, ok := ruleTable[RuleKey(norm)]
	if !ok || p.Domain != domain {
		return "", fmt.Errorf("%w: %s type %q", ErrUnknownRuleKey, strings.ToUpper(string(domain)), s)
	}
	return p.Key, nil
}
