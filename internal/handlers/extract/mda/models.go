// internal/handlers/extract/mda/models.go
package mda

import "edgar-content-service/internal/models"

// Input is the shared extraction request body.
type Input = models.ExtractionRequest

// Output is the /extract/mda response.
type Output struct {
	CIK         string   `json:"cik"`
	CompanyName string   `json:"company_name"`
	MDA         string   `json:"mda"`
	Source      string   `json:"source"`
	Highlights  []string `json:"highlights"`
}

// SectionID is the registry section this handler extracts. For 10-Q
// filings the registry maps it to Part I Item 2.
const SectionID = "mda"
