package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxdesk-backend/internal/models"
	"taxdesk-backend/internal/penalty"
	"taxdesk-backend/internal/storage"
)

// ReportHandler computes a penalty and stores the breakdown as a CSV file
// for the PDF summary renderer and for download.
type ReportHandler struct {
	calc  *CalculatorHandler
	store storage.Store
}

// NewReportHandler creates a ReportHandler that shares calc's cache and history.
func NewReportHandler(calc *CalculatorHandler, store storage.Store) *ReportHandler {
	return &ReportHandler{calc: calc, store: store}
}

// GSTReport handles POST /api/gst/penalty/report
func (h *ReportHandler) GSTReport(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, penalty.DomainGST)
}

// TDSReport handles POST /api/tds/penalty/report
func (h *ReportHandler) TDSReport(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, penalty.DomainTDS)
}

func (h *ReportHandler) generate(w http.ResponseWriter, r *http.Request, domain penalty.Domain) {
	in, body, ok := decodePenaltyRequest(w, r, domain)
	if !ok {
		return
	}

	resp, err := h.calc.evaluate(r.Context(), domain, in)
	if err != nil {
		writeEngineError(w, in, err)
		return
	}
	resp.CalculationID = h.calc.record(r.Context(), domain, body, resp)

	var buf bytes.Buffer
	if err := writeReportCSV(&buf, in, resp); err != nil {
		log.Printf("Error rendering report: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	now := h.calc.now().UTC()
	path := fmt.Sprintf("reports/%s/%s-%s.csv", now.Format("2006-01-02"), resp.RuleKey, uuid.NewString())
	info, err := h.store.Save(ctx, path, &buf, "text/csv")
	if err != nil {
		log.Printf("Report upload failed: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to save report")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":   info,
		"result": resp,
	})
}

// writeReportCSV renders a two-column Field,Value breakdown.
func writeReportCSV(buf *bytes.Buffer, in penalty.Input, resp models.PenaltyResponse) error {
	policy, err := penalty.LookupPolicy(in.RuleKey)
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Field", "Value"},
		{"Calculator", strings.ToUpper(resp.Domain)},
		{"Type", policy.DisplayName},
		{"Tax Amount", in.TaxAmount.StringFixed(2)},
		{"Due Date", in.DueDate.String()},
		{"Filing Date", in.FilingDate.String()},
	}
	switch penalty.Domain(resp.Domain) {
	case penalty.DomainGST:
		rows = append(rows, []string{"Tax Paid Late", strconv.FormatBool(in.TaxPaidLate)})
	case penalty.DomainTDS:
		deposit := ""
		if in.DepositDate != nil {
			deposit = in.DepositDate.String()
		}
		rows = append(rows, []string{"Deposit Date", deposit})
	}
	rows = append(rows,
		[]string{"Grace Period (days)", strconv.Itoa(policy.GraceDays)},
		[]string{"Days Late", strconv.Itoa(resp.DaysLate)},
		[]string{"Interest Days", strconv.Itoa(resp.InterestDays)},
		[]string{"Status", resp.StatusLabel},
		[]string{"Late Fee", strconv.FormatInt(resp.LateFee, 10)},
		[]string{"Interest", strconv.FormatInt(resp.InterestAmount, 10)},
		[]string{"Total Penalty", strconv.FormatInt(resp.TotalPenalty, 10)},
	)

	cw := csv.NewWriter(buf)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
