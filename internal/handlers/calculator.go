package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taxdesk-backend/internal/cache"
	"taxdesk-backend/internal/ctxkeys"
	"taxdesk-backend/internal/history"
	"taxdesk-backend/internal/models"
	"taxdesk-backend/internal/penalty"
)

const maxRequestBody = 64 << 10 // 64 KB

// CalculatorHandler serves the GST and TDS penalty calculators.
type CalculatorHandler struct {
	cache   cache.Cache
	history history.Store
	now     func() time.Time
}

// NewCalculatorHandler creates a CalculatorHandler. Results are memoized in
// c; calculations by signed-in users are saved to h.
func NewCalculatorHandler(c cache.Cache, h history.Store) *CalculatorHandler {
	return &CalculatorHandler{cache: c, history: h, now: time.Now}
}

// GSTPenalty handles POST /api/gst/penalty
func (h *CalculatorHandler) GSTPenalty(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, penalty.DomainGST)
}

// TDSPenalty handles POST /api/tds/penalty
func (h *CalculatorHandler) TDSPenalty(w http.ResponseWriter, r *http.Request) {
	h.calculate(w, r, penalty.DomainTDS)
}

func (h *CalculatorHandler) calculate(w http.ResponseWriter, r *http.Request, domain penalty.Domain) {
	in, body, ok := decodePenaltyRequest(w, r, domain)
	if !ok {
		return
	}

	resp, err := h.evaluate(r.Context(), domain, in)
	if err != nil {
		writeEngineError(w, in, err)
		return
	}
	resp.CalculationID = h.record(r.Context(), domain, body, resp)

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": resp,
	})
}

// Rules handles GET /api/rules/{domain}
func (h *CalculatorHandler) Rules(w http.ResponseWriter, r *http.Request) {
	domain, err := penalty.ParseDomain(chi.URLParam(r, "domain"))
	if err != nil {
		JSONError(w, http.StatusNotFound, "Unknown calculator. Use gst or tds.")
		return
	}

	rules := []models.RuleResponse{}
	for _, p := range penalty.Policies(domain) {
		rules = append(rules, models.NewRuleResponse(p))
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": rules,
	})
}

// evaluate returns the cached response for in, computing and caching it on a miss.
func (h *CalculatorHandler) evaluate(ctx context.Context, domain penalty.Domain, in penalty.Input) (models.PenaltyResponse, error) {
	key := cacheKey(domain, in)
	if cached, ok := h.cache.Get(ctx, key); ok {
		var resp models.PenaltyResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return resp, nil
		}
		log.Printf("[cache] discarding unreadable entry %s", key)
	}

	compute := penalty.ComputeGSTPenalty
	if domain == penalty.DomainTDS {
		compute = penalty.ComputeTDSPenalty
	}
	res, err := compute(in)
	if err != nil {
		return models.PenaltyResponse{}, err
	}

	resp := models.NewPenaltyResponse(domain, res)
	if data, err := json.Marshal(resp); err == nil {
		if err := h.cache.Set(ctx, key, string(data)); err != nil {
			log.Printf("[cache] set %s: %v", key, err)
		}
	}
	return resp, nil
}

// record saves the calculation for a signed-in user and returns its ID.
// Anonymous requests and storage failures return "".
func (h *CalculatorHandler) record(ctx context.Context, domain penalty.Domain, body json.RawMessage, resp models.PenaltyResponse) string {
	userID := ctxkeys.GetUserID(ctx)
	if userID == "" {
		return ""
	}

	rec := &models.CalculationRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Domain:    string(domain),
		RuleKey:   resp.RuleKey,
		Request:   body,
		Result:    resp,
		CreatedAt: h.now().UTC(),
	}

	saveCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := h.history.Save(saveCtx, rec); err != nil {
		log.Printf("[history] save calculation for %s: %v", userID, err)
		return ""
	}
	return rec.ID
}

// decodePenaltyRequest reads and validates a calculator body. On failure it
// writes the error response and returns ok=false.
func decodePenaltyRequest(w http.ResponseWriter, r *http.Request, domain penalty.Domain) (in penalty.Input, body json.RawMessage, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return in, nil, false
	}

	var req models.PenaltyRequest = &models.GSTPenaltyRequest{}
	if domain == penalty.DomainTDS {
		req = &models.TDSPenaltyRequest{}
	}
	if err := json.Unmarshal(body, req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return in, nil, false
	}

	in, errs := req.ToInput()
	if len(errs) > 0 {
		validationFailed(w, errs)
		return in, nil, false
	}
	return in, body, true
}

// writeEngineError maps engine error kinds to HTTP responses. Date errors
// are reported on the same fields ToInput uses.
func writeEngineError(w http.ResponseWriter, in penalty.Input, err error) {
	switch {
	case errors.Is(err, penalty.ErrInvalidAmount):
		validationFailed(w, map[string]string{"taxAmount": "Tax amount cannot be negative"})
	case errors.Is(err, penalty.ErrInvalidDate):
		validationFailed(w, dateErrors(in))
	case errors.Is(err, penalty.ErrUnknownRuleKey):
		JSONError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Error computing penalty: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to compute penalty")
	}
}

func dateErrors(in penalty.Input) map[string]string {
	switch {
	case !in.DueDate.IsValid():
		return map[string]string{"dueDate": "Due date must be a valid YYYY-MM-DD date"}
	case !in.FilingDate.IsValid():
		return map[string]string{"filingDate": "Filing date must be a valid YYYY-MM-DD date"}
	case in.FilingDate.Before(in.DueDate):
		return map[string]string{"filingDate": "Filing date cannot be before the due date"}
	default:
		return map[string]string{"depositDate": "Deposit date must be a valid YYYY-MM-DD date"}
	}
}

// cacheKey identifies an input by every field the engine reads.
func cacheKey(domain penalty.Domain, in penalty.Input) string {
	deposit := ""
	if in.DepositDate != nil {
		deposit = in.DepositDate.String()
	}
	return fmt.Sprintf("penalty:%s:%s:%s:%s:%s:%t:%s",
		domain, in.RuleKey, in.TaxAmount.String(), in.DueDate, in.FilingDate, in.TaxPaidLate, deposit)
}
