package insidertransactions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/directory"
	"edgar-content-service/internal/edgar"
	"edgar-content-service/internal/filings"
	"edgar-content-service/internal/store"
	"edgar-content-service/pkg/forms"
)

// ==========================
// Test Helper Functions
// ==========================

const tickersPayload = `{
  "0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}
}`

const submissionsPayload = `{
  "cik": "320193",
  "name": "Apple Inc.",
  "filings": {
    "recent": {
      "accessionNumber": ["0000320193-24-000050", "0000320193-24-000123", "0000320193-24-000040"],
      "filingDate": ["2024-12-02", "2024-11-01", "2024-10-15"],
      "form": ["4", "10-K", "4"],
      "primaryDocument": ["xslF345X05/form4.xml", "aapl-20240928.htm", "form4.xml"]
    }
  }
}`

const form4Sale = `<?xml version="1.0"?>
<ownershipDocument>
  <periodOfReport>2024-12-01</periodOfReport>
  <issuer>
    <issuerCik>0000320193</issuerCik>
    <issuerName>Apple Inc.</issuerName>
    <issuerTradingSymbol>AAPL</issuerTradingSymbol>
  </issuer>
  <reportingOwner>
    <reportingOwnerId>
      <rptOwnerCik>0001214156</rptOwnerCik>
      <rptOwnerName>COOK TIMOTHY D</rptOwnerName>
    </reportingOwnerId>
    <reportingOwnerRelationship>
      <isDirector>1</isDirector>
      <isOfficer>1</isOfficer>
      <officerTitle>Chief Executive Officer</officerTitle>
    </reportingOwnerRelationship>
  </reportingOwner>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <securityTitle><value>Common Stock</value></securityTitle>
      <transactionDate><value>2024-12-01</value></transactionDate>
      <transactionCoding><transactionCode>S</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares><value>1000</value></transactionShares>
        <transactionPricePerShare><value>230.50</value></transactionPricePerShare>
        <transactionAcquiredDisposedCode><value>D</value></transactionAcquiredDisposedCode>
      </transactionAmounts>
      <postTransactionAmounts>
        <sharesOwnedFollowingTransaction><value>3280000</value></sharesOwnedFollowingTransaction>
      </postTransactionAmounts>
      <ownershipNature>
        <directOrIndirectOwnership><value>D</value></directOrIndirectOwnership>
      </ownershipNature>
    </nonDerivativeTransaction>
    <nonDerivativeTransaction>
      <securityTitle><value>Common Stock</value></securityTitle>
      <transactionDate><value>2024-12-01</value></transactionDate>
      <transactionCoding><transactionCode>G</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares><value>50</value></transactionShares>
        <transactionPricePerShare><value>0</value></transactionPricePerShare>
        <transactionAcquiredDisposedCode><value>D</value></transactionAcquiredDisposedCode>
      </transactionAmounts>
      <postTransactionAmounts>
        <sharesOwnedFollowingTransaction><value>3279950</value></sharesOwnedFollowingTransaction>
      </postTransactionAmounts>
      <ownershipNature>
        <directOrIndirectOwnership><value>I</value></directOrIndirectOwnership>
      </ownershipNature>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
</ownershipDocument>`

const form4Purchase = `<?xml version="1.0"?>
<ownershipDocument>
  <periodOfReport>2024-10-14</periodOfReport>
  <issuer>
    <issuerCik>0000320193</issuerCik>
    <issuerName>Apple Inc.</issuerName>
  </issuer>
  <reportingOwner>
    <reportingOwnerId>
      <rptOwnerCik>0001051401</rptOwnerCik>
      <rptOwnerName>LEVINSON ARTHUR D</rptOwnerName>
    </reportingOwnerId>
    <reportingOwnerRelationship>
      <isDirector>true</isDirector>
    </reportingOwnerRelationship>
  </reportingOwner>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <securityTitle><value>Common Stock</value></securityTitle>
      <transactionDate><value>2024-10-14</value></transactionDate>
      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares><value>500</value></transactionShares>
        <transactionPricePerShare><value>225.00</value></transactionPricePerShare>
        <transactionAcquiredDisposedCode><value>A</value></transactionAcquiredDisposedCode>
      </transactionAmounts>
      <postTransactionAmounts>
        <sharesOwnedFollowingTransaction><value>4590000</value></sharesOwnedFollowingTransaction>
      </postTransactionAmounts>
      <ownershipNature>
        <directOrIndirectOwnership><value>D</value></directOrIndirectOwnership>
      </ownershipNature>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
</ownershipDocument>`

const minimalRegistry = `{
  "version": "1.0.0",
  "forms": [
    {"type": "4", "displayName": "Ownership Report", "category": "ownership", "sections": []}
  ]
}`

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tickersPayload))
	})
	mux.HandleFunc("/submissions/CIK0000320193.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(submissionsPayload))
	})
	// The styled path xslF345X05/form4.xml resolves to the raw file.
	mux.HandleFunc("/Archives/edgar/data/320193/000032019324000050/form4.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(form4Sale))
	})
	mux.HandleFunc("/Archives/edgar/data/320193/000032019324000040/form4.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(form4Purchase))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	log := logger.NewTestLogger(t)
	serverURL := newUpstream(t).URL

	client, err := edgar.NewClientWithConfig(&edgar.ClientConfig{
		UserAgent:         "Test Suite test@example.com",
		ArchivesBaseURL:   serverURL,
		DataBaseURL:       serverURL,
		FullTextBaseURL:   serverURL,
		RequestsPerSecond: 1000,
		RequestTimeout:    5 * time.Second,
		RetryConfig:       &edgar.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
	}, log)
	require.NoError(t, err)

	registry, err := forms.ParseRegistry([]byte(minimalRegistry))
	require.NoError(t, err)

	cache := edgar.NewCache(nil, log)
	svc := filings.NewService(
		client, cache,
		store.NewSectionStore(nil, log),
		store.NewSectionIndex(nil, "", log),
		registry, filings.TTLConfig{}, log,
	)
	dir := directory.New(client, cache, time.Hour, log)
	return NewHandler(LoadConfig(), dir, svc, log)
}

func doRequest(t *testing.T, h *Handler, query string) (*httptest.ResponseRecorder, Output) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/search/insider-transactions?"+query, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out Output
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestInsiderTransactionsParsed(t *testing.T) {
	h := newTestHandler(t)

	rec, out := doRequest(t, h, "cik=320193")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "320193", out.CIK)
	assert.Equal(t, "Apple Inc.", out.CompanyName)
	require.Equal(t, 3, out.Count)

	// Newest filing's transactions come first.
	first := out.Transactions[0]
	assert.Equal(t, "COOK TIMOTHY D", first.Owner)
	assert.Equal(t, "Director, Chief Executive Officer", first.Relationship)
	assert.Equal(t, "Sale", first.TransactionType)
	assert.Equal(t, "Common Stock", first.SecurityTitle)
	assert.Equal(t, 1000.0, first.Shares)
	assert.Equal(t, 230.50, first.PricePerShare)
	assert.Equal(t, 230500.0, first.TotalValue)
	assert.Equal(t, 3280000.0, first.SharesOwnedAfter)
	assert.Equal(t, "Direct", first.Ownership)
	assert.Equal(t, "0000320193-24-000050", first.AccessionNumber)

	assert.Equal(t, "Gift", out.Transactions[1].TransactionType)
	assert.Equal(t, "Indirect", out.Transactions[1].Ownership)

	last := out.Transactions[2]
	assert.Equal(t, "LEVINSON ARTHUR D", last.Owner)
	assert.Equal(t, "Director", last.Relationship)
	assert.Equal(t, "Purchase", last.TransactionType)
}

func TestInsiderTransactionsByTicker(t *testing.T) {
	h := newTestHandler(t)

	rec, out := doRequest(t, h, "cik=AAPL")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, out.Count)
}

func TestInsiderTransactionsLimit(t *testing.T) {
	h := newTestHandler(t)

	_, out := doRequest(t, h, "cik=320193&limit=1")

	assert.Equal(t, 1, out.Count)
	assert.Len(t, out.Transactions, 1)
}

// ==========================
// Edge Cases
// ==========================

func TestInsiderTransactionsMissingCIK(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/search/insider-transactions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsiderTransactionsBadLimit(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/search/insider-transactions?cik=320193&limit=many", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsiderTransactionsUnknownCompany(t *testing.T) {
	h := newTestHandler(t)

	output, err := h.Execute(context.Background(), &Input{Query: "UNKNOWN TICKER"})

	assert.Error(t, err)
	assert.Nil(t, output)
}
