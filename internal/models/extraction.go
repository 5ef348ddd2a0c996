// internal/models/extraction.go
package models

// ExtractionRequest is the shared request body for the
// /extract/business-description, /extract/risk-factors,
// /extract/financial-statements and /extract/mda endpoints.
type ExtractionRequest struct {
	CIK             string   `json:"cik"`
	AccessionNumber string   `json:"accession_number,omitempty"`
	FormType        string   `json:"form_type,omitempty"`
	Sections        []string `json:"sections,omitempty"`
}

// DefaultFormType is assumed when an extraction request omits form_type.
const DefaultFormType = "10-K"

// NormalizedFormType returns the requested form type or the default.
func (r *ExtractionRequest) NormalizedFormType() string {
	if r.FormType == "" {
		return DefaultFormType
	}
	return r.FormType
}
