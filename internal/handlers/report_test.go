package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"taxdesk-backend/internal/models"
	"taxdesk-backend/internal/storage"
)

type reportEnvelope struct {
	Data   storage.FileInfo       `json:"data"`
	Result models.PenaltyResponse `json:"result"`
}

func TestGSTReport_StoresCSV(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/gst/penalty/report",
		`{"returnType":"gstr3b","taxAmount":50000,"dueDate":"2025-01-31","filingDate":"2025-03-31","taxPaidLate":true}`, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var got reportEnvelope
	decodeBody(t, w, &got)

	prefix := "http://localhost:8080/api/files/reports/2025-03-31/gstr3b-"
	if !strings.HasPrefix(got.Data.URL, prefix) || !strings.HasSuffix(got.Data.URL, ".csv") {
		t.Errorf("URL = %q", got.Data.URL)
	}
	if got.Data.FileType != "text/csv" || got.Data.FileSize == 0 {
		t.Errorf("file info = %+v", got.Data)
	}
	if got.Result.TotalPenalty != 4405 {
		t.Errorf("TotalPenalty = %d, want 4405", got.Result.TotalPenalty)
	}

	// Fetch the stored file back through the file route.
	path := strings.TrimPrefix(got.Data.URL, "http://localhost:8080")
	fw := env.do(t, http.MethodGet, path, "", "")
	if fw.Code != http.StatusOK {
		t.Fatalf("fetch report: expected 200, got %d", fw.Code)
	}

	rows, err := csv.NewReader(fw.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	values := map[string]string{}
	for _, row := range rows[1:] {
		values[row[0]] = row[1]
	}
	want := map[string]string{
		"Calculator":    "GST",
		"Type":          "GSTR-3B",
		"Tax Amount":    "50000.00",
		"Tax Paid Late": "true",
		"Days Late":     "59",
		"Late Fee":      "2950",
		"Interest":      "1455",
		"Total Penalty": "4405",
	}
	for field, v := range want {
		if values[field] != v {
			t.Errorf("%s = %q, want %q", field, values[field], v)
		}
	}
}

func TestTDSReport_DepositRow(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/tds/penalty/report",
		`{"deductionType":"rent","taxAmount":100000,"dueDate":"2025-01-15","filingDate":"2025-01-20","depositDate":"2025-03-15"}`, "")

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var got reportEnvelope
	decodeBody(t, w, &got)

	fw := env.do(t, http.MethodGet, strings.TrimPrefix(got.Data.URL, "http://localhost:8080"), "", "")
	body := fw.Body.String()
	if !strings.Contains(body, "Deposit Date,2025-03-15") || !strings.Contains(body, "Interest Days,59") {
		t.Errorf("report body missing deposit rows:\n%s", body)
	}
}

func TestReport_ValidationFailsWithoutWriting(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/gst/penalty/report", `{"returnType":"gstr1"}`, "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestServeFile_Missing(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/api/files/reports/none.csv", "", ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
