// internal/handlers/compare/filing-compare/handler.go
package filingcompare

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/edgar"
	"edgar-content-service/internal/extract/compare"
	"edgar-content-service/internal/filings"
)

const (
	HandlerName = "filing-compare"
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

	q := r.URL.Query()
	input := &Input{
		CIK:        q.Get("cik"),
		Accession1: q.Get("filing1_accession"),
		Accession2: q.Get("filing2_accession"),
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute compares the business and risk factor sections of two filings
// plus the headline financials the two filings reported. Filing order
// matters: filing1 is the baseline, filing2 the newer side.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	if strings.TrimSpace(input.CIK) == "" {
		return nil, errors.NewInvalidRequestError("cik parameter is required")
	}
	if strings.TrimSpace(input.Accession1) == "" || strings.TrimSpace(input.Accession2) == "" {
		return nil, errors.NewInvalidRequestError("filing1_accession and filing2_accession parameters are required")
	}

	filing1, err := h.filings.Filing(ctx, input.CIK, input.Accession1, "")
	if err != nil {
		return nil, err
	}
	filing2, err := h.filings.Filing(ctx, input.CIK, input.Accession2, "")
	if err != nil {
		return nil, err
	}

	business1, err := h.filings.SectionText(ctx, filing1, "business")
	if err != nil {
		return nil, err
	}
	business2, err := h.filings.SectionText(ctx, filing2, "business")
	if err != nil {
		return nil, err
	}
	risk1, err := h.filings.SectionText(ctx, filing1, "risk_factors")
	if err != nil {
		return nil, err
	}
	risk2, err := h.filings.SectionText(ctx, filing2, "risk_factors")
	if err != nil {
		return nil, err
	}

	changes := Changes{
		BusinessChanges:     compare.Text(business1, business2),
		RiskChanges:         compare.Text(risk1, risk2),
		FinancialHighlights: h.financialHighlights(ctx, input.CIK, filing1, filing2),
	}

	h.logger.Info("filings compared", map[string]interface{}{
		"cik":        input.CIK,
		"filing1":    filing1.AccessionNumber,
		"filing2":    filing2.AccessionNumber,
		"highlights": len(changes.FinancialHighlights),
	})

	return &Output{
		CIK:         input.CIK,
		CompanyName: filings.CompanyNameFallback(filing1.CompanyName, filing1.CIK),
		Changes:     changes,
		Filing1:     filingInfo(filing1),
		Filing2:     filingInfo(filing2),
	}, nil
}

// financialHighlights is best effort. A company without XBRL facts
// still gets a text comparison, so facts errors collapse to an empty
// highlight map instead of failing the request.
func (h *Handler) financialHighlights(ctx context.Context, cik string, f1, f2 edgar.Filing) map[string]compare.FinancialChange {
	raw, err := h.filings.Facts(ctx, cik)
	if err != nil {
		h.logger.Warn("financial highlights unavailable", map[string]interface{}{
			"cik":   cik,
			"error": err.Error(),
		})
		return map[string]compare.FinancialChange{}
	}
	return compare.Financials(raw, f1.AccessionNumber, f2.AccessionNumber)
}

func filingInfo(f edgar.Filing) FilingInfo {
	return FilingInfo{
		AccessionNumber: f.AccessionNumber,
		Form:            f.Form,
		FilingDate:      f.FilingDate,
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
