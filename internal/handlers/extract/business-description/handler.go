// internal/handlers/extract/business-description/handler.go
package businessdescription

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/filings"
)

const (
	HandlerName = "business-description"
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

// execute extracts the business description from the requested filing,
// defaulting to the latest 10-K. A filing whose text yields no section
// content gets the stock fallback sentence instead of an error.
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

	sectionIDs := input.Sections
	if len(sectionIDs) == 0 {
		sectionIDs = []string{DefaultSection}
	}

	parts := make([]string, 0, len(sectionIDs))
	for _, id := range sectionIDs {
		text, err := h.filings.SectionText(ctx, filing, id)
		if err != nil {
			return nil, err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	name := filings.CompanyNameFallback(filing.CompanyName, filing.CIK)
	description := strings.Join(parts, "\n\n")
	if len(description) > h.config.MaxChars {
		description = description[:h.config.MaxChars]
	}
	if description == "" {
		description = fmt.Sprintf(
			"Business information available for %s - content extraction may need refinement", name)
	}

	h.logger.Info("business description extracted", map[string]interface{}{
		"cik":       input.CIK,
		"accession": filing.AccessionNumber,
		"chars":     len(description),
	})

	return &Output{
		CIK:         input.CIK,
		CompanyName: name,
		Description: description,
		Source:      filings.Source(filing),
		ExtractedAt: filing.AccessionNumber,
	}, nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
