// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"
)

// ErrorHandler writes request errors as standardized JSON responses
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError handles any error raised while serving a request
func (h *ErrorHandler) HandleRequestError(w http.ResponseWriter, r *http.Request, err error) {
	// Normalize to StandardError
	stdErr := h.normalizeError(err)

	status := HTTPStatus(stdErr)
	h.logError(r, stdErr, status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(stdErr)
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps a StandardError code to an HTTP status code.
func HTTPStatus(err *StandardError) int {
	switch err.Code {
	case ErrCodeCompanyNotFound,
		ErrCodeFilingNotFound,
		ErrCodeFinancialDataNotFound,
		ErrCodeIndexNotFound,
		"RESOURCE_NOT_FOUND":
		return http.StatusNotFound

	case ErrCodeInvalidRequest,
		ErrCodeInvalidCIK,
		ErrCodeInvalidAccession,
		ErrCodeFormNotSupported,
		ErrCodeRegistryInvalid,
		"BUSINESS_RULE_VIOLATION":
		return http.StatusBadRequest

	case ErrCodeEdgarTimeout,
		"TIMEOUT_ERROR":
		return http.StatusGatewayTimeout

	case ErrCodeEdgarUnavailable,
		ErrCodeEdgarRateLimited,
		ErrCodeEdgarForbidden,
		ErrCodeDocumentFetchFailed,
		"EXTERNAL_SERVICE_ERROR":
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

func (h *ErrorHandler) logError(r *http.Request, stdErr *StandardError, status int) {
	h.logger.Error("Request failed", map[string]interface{}{
		"method":        r.Method,
		"path":          r.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}
