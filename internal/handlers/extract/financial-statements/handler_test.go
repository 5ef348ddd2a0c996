package financialstatements

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/edgar"
	"edgar-content-service/internal/filings"
	"edgar-content-service/internal/store"
	"edgar-content-service/pkg/forms"
)

// ==========================
// Test Helper Functions
// ==========================

const companyFactsPayload = `{
  "cik": 320193,
  "entityName": "Apple Inc.",
  "facts": {
    "us-gaap": {
      "Revenues": {
        "units": {
          "USD": [
            {"end": "2023-09-30", "val": 383285000000, "accn": "0000320193-23-000106", "fy": 2023, "fp": "FY", "form": "10-K"},
            {"end": "2024-09-28", "val": 391035000000, "accn": "0000320193-24-000123", "fy": 2024, "fp": "FY", "form": "10-K"},
            {"end": "2024-12-28", "val": 124300000000, "accn": "0000320193-25-000008", "fy": 2025, "fp": "Q1", "form": "10-Q"}
          ]
        }
      },
      "NetIncomeLoss": {
        "units": {
          "USD": [
            {"end": "2024-09-28", "val": 93736000000, "accn": "0000320193-24-000123", "fy": 2024, "fp": "FY", "form": "10-K"}
          ]
        }
      },
      "Assets": {
        "units": {
          "USD": [
            {"end": "2024-09-28", "val": 364980000000, "accn": "0000320193-24-000123", "fy": 2024, "fp": "FY", "form": "10-K"},
            {"end": "2024-12-28", "val": 344085000000, "accn": "0000320193-25-000008", "fy": 2025, "fp": "Q1", "form": "10-Q"}
          ]
        }
      },
      "EarningsPerShareDiluted": {
        "units": {
          "USD/shares": [
            {"end": "2024-09-28", "val": 6.08, "accn": "0000320193-24-000123", "fy": 2024, "fp": "FY", "form": "10-K"}
          ]
        }
      }
    }
  }
}`

const factsWithoutGAAP = `{
  "cik": 320193,
  "entityName": "Apple Inc.",
  "facts": {
    "dei": {
      "EntityCommonStockSharesOutstanding": {"units": {"shares": []}}
    }
  }
}`

func newTestHandler(t *testing.T, factsPayload string) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/xbrl/companyfacts/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(factsPayload))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := edgar.NewClientWithConfig(&edgar.ClientConfig{
		UserAgent:         "Test Suite test@example.com",
		ArchivesBaseURL:   server.URL,
		DataBaseURL:       server.URL,
		FullTextBaseURL:   server.URL,
		RequestsPerSecond: 1000,
		RequestTimeout:    5 * time.Second,
		RetryConfig:       &edgar.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}, log)
	require.NoError(t, err)

	registry, err := forms.ParseRegistry([]byte(`{"version": "1.0.0", "forms": []}`))
	require.NoError(t, err)

	svc := filings.NewService(
		client, edgar.NewCache(nil, log),
		store.NewSectionStore(nil, log),
		store.NewSectionIndex(nil, "", log),
		registry, filings.TTLConfig{}, log,
	)
	return NewHandler(LoadConfig(), svc, log)
}

func doExtract(t *testing.T, h *Handler, input Input) (*httptest.ResponseRecorder, Output) {
	t.Helper()
	body, err := json.Marshal(input)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/extract/financial-statements", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExtractFinancialStatements(t *testing.T) {
	h := newTestHandler(t, companyFactsPayload)

	rec, out := doExtract(t, h, Input{CIK: "320193"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Apple Inc.", out.CompanyName)
	assert.Equal(t, "XBRL Data", out.Source)
	assert.Equal(t, "2024-09-28", out.Period)

	require.NotNil(t, out.FinancialData)
	income := out.FinancialData.IncomeStatement
	balance := out.FinancialData.BalanceSheet
	assert.Equal(t, float64(391035000000), income["Revenues"].Value)
	assert.Equal(t, float64(93736000000), income["NetIncomeLoss"].Value)
	assert.Equal(t, 6.08, income["EarningsPerShareDiluted"].Value)
	assert.Equal(t, float64(364980000000), balance["Assets"].Value)
}

func TestExtractPrefersLatestAnnualOverQuarterly(t *testing.T) {
	h := newTestHandler(t, companyFactsPayload)

	_, out := doExtract(t, h, Input{CIK: "320193"})

	// The Q1 2025 entries are newer but quarterly; the annual FY 2024
	// facts win.
	require.NotNil(t, out.FinancialData)
	assert.Equal(t, "10-K", out.FinancialData.IncomeStatement["Revenues"].Form)
	assert.Equal(t, "2024-09-28", out.FinancialData.BalanceSheet["Assets"].End)
}

func TestExtractKeyMetrics(t *testing.T) {
	h := newTestHandler(t, companyFactsPayload)

	_, out := doExtract(t, h, Input{CIK: "320193"})

	require.NotNil(t, out.FinancialData)
	metrics := out.FinancialData.KeyMetrics
	assert.Equal(t, float64(391035000000), metrics["revenue"])
	assert.Equal(t, float64(93736000000), metrics["net_income"])
	assert.Equal(t, float64(364980000000), metrics["total_assets"])
	// Concepts the company never tagged report zero.
	assert.Equal(t, float64(0), metrics["total_liabilities"])
}

// ==========================
// Edge Cases
// ==========================

func TestExtractNoFinancialData(t *testing.T) {
	h := newTestHandler(t, factsWithoutGAAP)

	body, err := json.Marshal(Input{CIK: "320193"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/extract/financial-statements", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No financial data found")
}

func TestExtractMissingCIK(t *testing.T) {
	h := newTestHandler(t, companyFactsPayload)

	rec, _ := doExtract(t, h, Input{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteNilInput(t *testing.T) {
	h := newTestHandler(t, companyFactsPayload)

	output, err := h.Execute(context.Background(), nil)

	assert.Error(t, err)
	assert.Nil(t, output)
}
