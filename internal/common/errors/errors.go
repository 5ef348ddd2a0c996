// Package errors provides standardized error handling for the EDGAR content service.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCompanyNotFound       ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeFilingNotFound        ErrorCode = "FILING_NOT_FOUND"
	ErrCodeFinancialDataNotFound ErrorCode = "FINANCIAL_DATA_NOT_FOUND"

	ErrCodeEdgarUnavailable ErrorCode = "EDGAR_UNAVAILABLE"
	ErrCodeEdgarTimeout     ErrorCode = "EDGAR_TIMEOUT"
	ErrCodeEdgarRateLimited ErrorCode = "EDGAR_RATE_LIMITED"
	ErrCodeEdgarForbidden   ErrorCode = "EDGAR_FORBIDDEN"

	ErrCodeDocumentFetchFailed ErrorCode = "DOCUMENT_FETCH_FAILED"
	ErrCodeDocumentTooLarge    ErrorCode = "DOCUMENT_TOO_LARGE"

	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrCodeInvalidCIK       ErrorCode = "INVALID_CIK"
	ErrCodeInvalidAccession ErrorCode = "INVALID_ACCESSION_NUMBER"
	ErrCodeFormNotSupported ErrorCode = "FORM_NOT_SUPPORTED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"

	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout     ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound     ErrorCode = "INDEX_NOT_FOUND"

	ErrCodeRegistryInvalid ErrorCode = "FORM_REGISTRY_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewCompanyNotFoundError creates a non-retryable company resolution error.
func NewCompanyNotFoundError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompanyNotFound,
		Message:   "Company not found",
		Details:   fmt.Sprintf("query: %s", query),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFilingNotFoundError creates a non-retryable filing lookup error.
// The message matches the public API contract for missing filings.
func NewFilingNotFoundError(formType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFilingNotFound,
		Message:   fmt.Sprintf("No %s filings found", formType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewAccessionNotFoundError creates a non-retryable error for an unknown accession number.
func NewAccessionNotFoundError(accession string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFilingNotFound,
		Message:   "Filing not found",
		Details:   fmt.Sprintf("accessionNumber: %s", accession),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFinancialDataNotFoundError creates a non-retryable XBRL facts error.
func NewFinancialDataNotFoundError(cik string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFinancialDataNotFound,
		Message:   "No financial data found",
		Details:   fmt.Sprintf("cik: %s", cik),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEdgarUnavailableError creates a retryable upstream connectivity error.
func NewEdgarUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEdgarUnavailable,
		Message:   "SEC EDGAR request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEdgarTimeoutError creates a retryable upstream timeout error.
func NewEdgarTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEdgarTimeout,
		Message:   "SEC EDGAR request timeout",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEdgarRateLimitedError creates a retryable error for upstream 429 responses.
func NewEdgarRateLimitedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEdgarRateLimited,
		Message:   "SEC EDGAR rate limit exceeded",
		Details:   "upstream returned 429; backing off",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEdgarForbiddenError creates a non-retryable error for upstream 403 responses.
// EDGAR returns 403 when requests arrive without a declared User-Agent identity.
func NewEdgarForbiddenError(url string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEdgarForbidden,
		Message:   "SEC EDGAR rejected the request",
		Details:   fmt.Sprintf("403 from %s; check SEC_API_USER_AGENT", url),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentFetchFailedError creates a retryable document download error.
func NewDocumentFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentFetchFailed,
		Message:   "Filing document fetch failed",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentTooLargeError creates a non-retryable error for documents over the byte limit.
func NewDocumentTooLargeError(url string, limit int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentTooLarge,
		Message:   "Filing document exceeds size limit",
		Details:   fmt.Sprintf("url: %s, limitBytes: %d", url, limit),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCIKError creates a non-retryable CIK format error.
func NewInvalidCIKError(cik string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCIK,
		Message:   "Invalid CIK",
		Details:   fmt.Sprintf("cik: %s", cik),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidAccessionError creates a non-retryable accession number format error.
func NewInvalidAccessionError(accession string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidAccession,
		Message:   "Invalid accession number",
		Details:   fmt.Sprintf("accessionNumber: %s", accession),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewFormNotSupportedError creates a non-retryable error for forms missing from the registry.
func NewFormNotSupportedError(formType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormNotSupported,
		Message:   "Form type not supported",
		Details:   fmt.Sprintf("formType: %s", formType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError creates a retryable search query error.
func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Elasticsearch query error",
		Details:   fmt.Sprintf("index: %s, error: %s", index, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchTimeoutError creates a retryable search timeout error.
func NewSearchTimeoutError(index string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchTimeout,
		Message:   "Elasticsearch query timeout",
		Details:   fmt.Sprintf("index: %s", index),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexNotFoundError creates a non-retryable index not found error.
func NewIndexNotFoundError(indexName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Elasticsearch index not found",
		Details:   fmt.Sprintf("indexName: %s", indexName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRegistryInvalidError creates a non-retryable form registry validation error.
func NewRegistryInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRegistryInvalid,
		Message:   "Form registry validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return &StandardError{
		Code:      "BUSINESS_RULE_VIOLATION",
		Message:   message,
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Retry Policy
// ==========================

// GetRetryCount returns the recommended retry count for upstream and storage calls.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEdgarUnavailable,
		ErrCodeEdgarRateLimited,
		ErrCodeDocumentFetchFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed:
		return 3 // Retryable technical errors

	case ErrCodeEdgarTimeout,
		ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2 // Partial retry for timeouts

	default:
		return 0 // Business errors: no retry
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "EDGAR") || strings.Contains(codeStr, "DOCUMENT"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "LOOKUP"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "REGISTRY"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
