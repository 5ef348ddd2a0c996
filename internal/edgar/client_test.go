// internal/edgar/client_test.go
package edgar

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func createTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClientWithConfig(&ClientConfig{
		UserAgent:         "Test Suite test@example.com",
		ArchivesBaseURL:   serverURL,
		DataBaseURL:       serverURL,
		FullTextBaseURL:   serverURL,
		RequestsPerSecond: 1000,
		RequestTimeout:    5 * time.Second,
		MaxDocumentBytes:  1 << 20,
		RetryConfig:       fastRetryConfig(),
	}, logger.NewTestLogger(t))
	require.NoError(t, err)
	return client
}

const tickersPayload = `{
  "0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
  "1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"},
  "2": {"cik_str": 1318605, "ticker": "TSLA", "title": "Tesla, Inc."}
}`

const submissionsPayload = `{
  "cik": "320193",
  "name": "Apple Inc.",
  "tickers": ["AAPL"],
  "exchanges": ["Nasdaq"],
  "filings": {
    "recent": {
      "accessionNumber": ["0000320193-24-000123", "0000320193-24-000081", "0000320193-23-000106"],
      "filingDate": ["2024-11-01", "2024-08-02", "2023-11-03"],
      "reportDate": ["2024-09-28", "2024-06-29", "2023-09-30"],
      "form": ["10-K", "10-Q", "10-K"],
      "size": [1024, 2048, 4096],
      "isXBRL": [1, 1, 1],
      "primaryDocument": ["aapl-20240928.htm", "aapl-20240629.htm", "aapl-20230930.htm"],
      "primaryDocDescription": ["10-K", "10-Q", "10-K"]
    }
  }
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestClientRequiresUserAgent(t *testing.T) {
	_, err := NewClientWithConfig(&ClientConfig{}, logger.NewNoOpLogger())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user agent")
}

func TestClientStampsUserAgent(t *testing.T) {
	var gotUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Write([]byte(tickersPayload))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	_, err := client.CompanyTickers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Test Suite test@example.com", gotUA.Load())
}

func TestCompanyTickersParsesDirectory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/company_tickers.json", r.URL.Path)
		w.Write([]byte(tickersPayload))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	entries, err := client.CompanyTickers(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "AAPL", entries[0].Ticker)
	assert.Equal(t, int64(320193), entries[0].CIK)
	assert.Equal(t, "Apple Inc.", entries[0].Title)
}

func TestSubmissionsPadsCIK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submissions/CIK0000320193.json", r.URL.Path)
		w.Write([]byte(submissionsPayload))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	subs, err := client.Submissions(context.Background(), "320193")
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc.", subs.Name)
	assert.Len(t, subs.Filings.Recent.AccessionNumber, 3)
}

func TestSubmissionsNotFoundBecomesCompanyNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	_, err := client.Submissions(context.Background(), "999999")

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeCompanyNotFound, stdErr.Code)
}

func TestSubmissionsRejectsBadCIK(t *testing.T) {
	client := createTestClient(t, "http://unused.invalid")

	_, err := client.Submissions(context.Background(), "not-a-cik")

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeInvalidCIK, stdErr.Code)
}

// ==========================
// Retry Behavior Tests
// ==========================

func TestRetryOnServerError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(tickersPayload))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	_, err := client.CompanyTickers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	_, err := client.CompanyTickers(context.Background())

	require.Error(t, err)
	// initial attempt plus MaxRetries
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestForbiddenIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	_, err := client.CompanyTickers(context.Background())

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeEdgarForbidden, stdErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTooManyRequestsIsRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(tickersPayload))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	_, err := client.CompanyTickers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

// ==========================
// Document Handling Tests
// ==========================

func TestDocumentBuildsArchivePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm", r.URL.Path)
		w.Write([]byte("<html><body>Annual report</body></html>"))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	body, err := client.Document(context.Background(), "0000320193", "0000320193-24-000123", "aapl-20240928.htm")

	require.NoError(t, err)
	assert.Contains(t, string(body), "Annual report")
}

func TestDocumentTooLargeIsRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer server.Close()

	client, err := NewClientWithConfig(&ClientConfig{
		UserAgent:         "Test Suite test@example.com",
		ArchivesBaseURL:   server.URL,
		DataBaseURL:       server.URL,
		FullTextBaseURL:   server.URL,
		RequestsPerSecond: 1000,
		MaxDocumentBytes:  1024,
		RetryConfig:       fastRetryConfig(),
	}, logger.NewTestLogger(t))
	require.NoError(t, err)

	_, err = client.Document(context.Background(), "320193", "0000320193-24-000123", "huge.htm")

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeDocumentTooLarge, stdErr.Code)
}

func TestPrimaryDocumentStripsStyleSheetPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Archives/edgar/data/320193/000032019324000055/wk-form4_1714766129.xml", r.URL.Path)
		w.Write([]byte("<ownershipDocument></ownershipDocument>"))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	_, err := client.PrimaryDocument(context.Background(), Filing{
		CIK:             "320193",
		AccessionNumber: "0000320193-24-000055",
		PrimaryDocument: "xslF345X05/wk-form4_1714766129.xml",
	})
	require.NoError(t, err)
}

func TestFilingIndexURL(t *testing.T) {
	client := createTestClient(t, "https://www.sec.gov")
	url := client.FilingIndexURL("0000320193", "0000320193-24-000123")
	assert.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/0000320193-24-000123-index.html",
		url)
}

// ==========================
// Full-Text Search Tests
// ==========================

func TestFullTextSearchBuildsQueryAndParsesHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/LATEST/search-index", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, `"artificial intelligence"`, q.Get("q"))
		assert.Equal(t, "10-K,10-Q", q.Get("forms"))
		assert.Equal(t, "custom", q.Get("dateRange"))
		assert.Equal(t, "2024-01-01", q.Get("startdt"))
		assert.Equal(t, "2024-12-31", q.Get("enddt"))

		w.Write([]byte(`{
			"hits": {
				"total": {"value": 42},
				"hits": [
					{
						"_id": "0000320193-24-000123:aapl-20240928.htm",
						"_source": {
							"ciks": ["0000320193"],
							"display_names": ["Apple Inc.  (AAPL)  (CIK 0000320193)"],
							"file_type": "10-K",
							"file_date": "2024-11-01"
						}
					}
				]
			}
		}`))
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	result, err := client.FullTextSearch(
		context.Background(),
		`"artificial intelligence"`,
		[]string{"10-K", "10-Q"},
		"2024-01-01",
		"2024-12-31",
	)
	require.NoError(t, err)

	assert.Equal(t, int64(42), result.Total)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "0000320193-24-000123", result.Hits[0].AccessionNumber)
	assert.Equal(t, "aapl-20240928.htm", result.Hits[0].Document)
	assert.Equal(t, "10-K", result.Hits[0].FileType)
}

func TestFullTextSearchNotFoundMeansNoHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	result, err := client.FullTextSearch(context.Background(), "nothing", nil, "", "")

	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Total)
	assert.Empty(t, result.Hits)
}

// ==========================
// Health Check Tests
// ==========================

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := createTestClient(t, server.URL)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestHealthCheckFailsWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := createTestClient(t, server.URL)
	assert.Error(t, client.HealthCheck(context.Background()))
}
