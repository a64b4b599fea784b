package models

import (
	"bytes"
	"encoding/json"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"taxdesk-backend/internal/penalty"
)

// ── Calculator Requests ──────────────────────────────────────────
// Dates arrive as "YYYY-MM-DD". taxAmount may be a JSON number or a
// numeric string; anything else is reported as a validation error.

// GSTPenaltyRequest is the body of POST /api/gst/penalty.
type GSTPenaltyRequest struct {
	ReturnType  string          `json:"returnType"`
	TaxAmount   json.RawMessage `json:"taxAmount"`
	DueDate     string          `json:"dueDate"`
	FilingDate  string          `json:"filingDate"`
	TaxPaidLate bool            `json:"taxPaidLate"`
}

// TDSPenaltyRequest is the body of POST /api/tds/penalty.
type TDSPenaltyRequest struct {
	DeductionType string          `json:"deductionType"`
	TaxAmount     json.RawMessage `json:"taxAmount"`
	DueDate       string          `json:"dueDate"`
	FilingDate    string          `json:"filingDate"`
	DepositDate   string          `json:"depositDate,omitempty"`
}

// PenaltyRequest is implemented by both calculator request bodies.
type PenaltyRequest interface {
	// ToInput validates the request and converts it to engine input.
	// A non-empty map lists the invalid fields.
	ToInput() (penalty.Input, map[string]string)
}

// ToInput validates the GST request.
func (r *GSTPenaltyRequest) ToInput() (penalty.Input, map[string]string) {
	errors := map[string]string{}
	in := penalty.Input{TaxPaidLate: r.TaxPaidLate}

	if strings.TrimSpace(r.ReturnType) == "" {
		errors["returnType"] = "Return type is required"
	} else if key, err := penalty.ParseRuleKey(penalty.DomainGST, r.ReturnType); err != nil {
		errors["returnType"] = "Unknown GST return type"
	} else {
		in.RuleKey = key
	}

	parseCommon(&in, r.TaxAmount, r.DueDate, r.FilingDate, errors)
	return in, errors
}

// ToInput validates the TDS request.
func (r *TDSPenaltyRequest) ToInput() (penalty.Input, map[string]string) {
	errors := map[string]string{}
	var in penalty.Input

	if strings.TrimSpace(r.DeductionType) == "" {
		errors["deductionType"] = "Deduction type is required"
	} else if key, err := penalty.ParseRuleKey(penalty.DomainTDS, r.DeductionType); err != nil {
		errors["deductionType"] = "Unknown TDS deduction type"
	} else {
		in.RuleKey = key
	}

	parseCommon(&in, r.TaxAmount, r.DueDate, r.FilingDate, errors)

	if strings.TrimSpace(r.DepositDate) != "" {
		if d, ok := parseDate(r.DepositDate); ok {
			in.DepositDate = &d
		} else {
			errors["depositDate"] = "Deposit date must be a valid YYYY-MM-DD date"
		}
	}
	return in, errors
}

// parseCommon fills the amount and dates shared by both calculators.
// Negative amounts pass through; the engine rejects them.
func parseCommon(in *penalty.Input, rawAmount json.RawMessage, due, filing string, errors map[string]string) {
	if amount, ok, present := parseAmount(rawAmount); !present {
		errors["taxAmount"] = "Tax amount is required"
	} else if !ok {
		errors["taxAmount"] = "Tax amount must be a number"
	} else if !amountInRange(amount) {
		errors["taxAmount"] = "Tax amount must be below 1,000,000,000,000,000 with at most 8 decimal places"
	} else {
		in.TaxAmount = amount
	}

	dueOK, filingOK := false, false
	if strings.TrimSpace(due) == "" {
		errors["dueDate"] = "Due date is required"
	} else if in.DueDate, dueOK = parseDate(due); !dueOK {
		errors["dueDate"] = "Due date must be a valid YYYY-MM-DD date"
	}
	if strings.TrimSpace(filing) == "" {
		errors["filingDate"] = "Filing date is required"
	} else if in.FilingDate, filingOK = parseDate(filing); !filingOK {
		errors["filingDate"] = "Filing date must be a valid YYYY-MM-DD date"
	}

	if dueOK && filingOK && in.FilingDate.Before(in.DueDate) {
		errors["filingDate"] = "Filing date cannot be before the due date"
	}
}

func parseAmount(raw json.RawMessage) (amount decimal.Decimal, ok, present bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false, false
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, false, true
		}
		s = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, true
	}
	return d, true, true
}

// Bounds on taxAmount. Below 1e15 rupees every fee, interest and total
// over the widest civil date range fits an int64.
const (
	maxAmountIntDigits = 15
	maxAmountScale     = 8
)

// amountInRange inspects only the coefficient length and exponent, so an
// input like 1e20000000 is rejected without ever being expanded.
func amountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxAmountScale || exp > maxAmountIntDigits {
		return false
	}
	if d.IsZero() {
		return true
	}
	return d.NumDigits()+int(exp) <= maxAmountIntDigits
}

func parseDate(s string) (civil.Date, bool) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil || !d.IsValid() {
		return civil.Date{}, false
	}
	return d, true
}

// ── Calculator Response ─────────────────────────────────────────

// PenaltyResponse is the wire form of a penalty.Result. Amounts are whole rupees.
type PenaltyResponse struct {
	CalculationID       string `json:"calculationId,omitempty"`
	Domain              string `json:"domain"`
	RuleKey             string `json:"ruleKey"`
	DaysLate            int    `json:"daysLate"`
	InterestDays        int    `json:"interestDays"`
	IsWithinGracePeriod bool   `json:"isWithinGracePeriod"`
	LateFee             int64  `json:"lateFee"`
	InterestAmount      int64  `json:"interestAmount"`
	TotalPenalty        int64  `json:"totalPenalty"`
	StatusLabel         string `json:"statusLabel"`
}

// NewPenaltyResponse converts an engine result.
func NewPenaltyResponse(domain penalty.Domain, res penalty.Result) PenaltyResponse {
	return PenaltyResponse{
		Domain:              string(domain),
		RuleKey:             string(res.RuleKey),
		DaysLate:            res.DaysLate,
		InterestDays:        res.InterestDays,
		IsWithinGracePeriod: res.IsWithinGracePeriod,
		LateFee:             res.LateFee.IntPart(),
		InterestAmount:      res.InterestAmount.IntPart(),
		TotalPenalty:        res.TotalPenalty.IntPart(),
		StatusLabel:         res.StatusLabel,
	}
}

// ── Rule Table ───────────────────────────────────────────────────

// RuleResponse describes one rule policy for GET /api/rules/{domain}.
type RuleResponse struct {
	Key                       string  `json:"key"`
	Domain                    string  `json:"domain"`
	DisplayName               string  `json:"displayName"`
	GraceDays                 int     `json:"graceDays"`
	DailyRate                 int64   `json:"dailyRate"`
	FeeCap                    *int64  `json:"feeCap"` // null = uncapped
	InterestAnnualRatePercent float64 `json:"interestAnnualRatePercent"`
}

// NewRuleResponse converts a policy.
func NewRuleResponse(p penalty.RulePolicy) RuleResponse {
	rr := RuleResponse{
		Key:                       string(p.Key),
		Domain:                    string(p.Domain),
		DisplayName:               p.DisplayName,
		GraceDays:                 p.GraceDays,
		DailyRate:                 p.DailyRate.IntPart(),
		InterestAnnualRatePercent: p.InterestAnnualRatePercent.InexactFloat64(),
	}
	if limit, ok := p.Cap(); ok {
		v := limit.IntPart()
		rr.FeeCap = &v
	}
	return rr
}
