// internal/handlers/extract/financial-statements/handler.go
package financialstatements

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/extract/financials"
	"edgar-content-service/internal/filings"
)

const (
	HandlerName = "financial-statements"
)

type Handler struct {
	config  *Config
	filings *filings.Service
	logger  logger.Logger
	errors  *errors.ErrorHandler
}

func NewHandler(config *Config, svc *filings.Service, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"handler": HandlerName})
	return &Handler{
		config:  config.normalized(),
		filings: svc,
		logger:  l,
		errors:  errors.NewErrorHandler(l),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.HandleRequestError(w, r, errors.NewInvalidRequestError("request body must be valid JSON"))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute structures the company's XBRL facts into statement maps.
// Companies with no usable us-gaap facts map to the 404 contract
// ("No financial data found").
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	if strings.TrimSpace(input.CIK) == "" {
		return nil, errors.NewInvalidRequestError("cik is required")
	}

	raw, err := h.filings.Facts(ctx, input.CIK)
	if err != nil {
		return nil, err
	}

	data, err := financials.Extract(raw)
	if err != nil {
		return nil, err
	}

	name := filings.CompanyNameFallback(financials.EntityName(raw), input.CIK)

	h.logger.Info("financial statements extracted", map[string]interface{}{
		"cik":    input.CIK,
		"period": data.Period(),
	})

	return &Output{
		CIK:           input.CIK,
		CompanyName:   name,
		FinancialData: data,
		Source:        SourceName,
		Period:        data.Period(),
	}, nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
