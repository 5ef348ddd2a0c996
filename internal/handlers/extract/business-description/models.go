// internal/handlers/extract/business-description/models.go
package businessdescription

import "edgar-content-service/internal/models"

// Input is the shared extraction request body.
type Input = models.ExtractionRequest

// Output is the /extract/business-description response. Source names
// the filing ("10-K - 2024-11-01") and ExtractedAt carries its
// accession number.
type Output struct {
	CIK         string `json:"cik"`
	CompanyName string `json:"company_name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	ExtractedAt string `json:"extracted_at"`
}

// DefaultSection is extracted when the request names no sections.
const DefaultSection = "business"
