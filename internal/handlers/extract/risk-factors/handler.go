// internal/handlers/extract/risk-factors/handler.go
package riskfactors

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	riskextract "edgar-content-service/internal/extract/riskfactors"
	"edgar-content-service/internal/filings"
)

const (
	HandlerName = "risk-factors"
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

// execute parses the Item 1A section of the requested filing into
// categorized risk entries. A filing without a locatable section
// returns an empty list, not an error.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	if strings.TrimSpace(input.CIK) == "" {
		return nil, errors.NewInvalidRequestError("cik is required")
	}

	filing, err := h.filings.Filing(ctx, input.CIK, input.AccessionNumber, input.NormalizedFormType())
	if err != nil {
		return nil, err
	}

	text, err := h.filings.SectionText(ctx, filing, SectionID)
	if err != nil {
		return nil, err
	}

	risks := riskextract.Parse(text)
	if len(risks) > h.config.MaxRiskFactors {
		risks = risks[:h.config.MaxRiskFactors]
	}

	h.logger.Info("risk factors extracted", map[string]interface{}{
		"cik":       input.CIK,
		"accession": filing.AccessionNumber,
		"count":     len(risks),
	})

	return &Output{
		CIK:         input.CIK,
		CompanyName: filings.CompanyNameFallback(filing.CompanyName, filing.CIK),
		RiskFactors: risks,
		Source:      filings.Source(filing),
		ExtractedAt: filing.AccessionNumber,
	}, nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
