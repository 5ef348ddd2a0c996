// internal/handlers/extract/risk-factors/models.go
package riskfactors

import (
	riskextract "edgar-content-service/internal/extract/riskfactors"
	"edgar-content-service/internal/models"
)

// Input is the shared extraction request body.
type Input = models.ExtractionRequest

// Output is the /extract/risk-factors response.
type Output struct {
	CIK         string                   `json:"cik"`
	CompanyName string                   `json:"company_name"`
	RiskFactors []riskextract.RiskFactor `json:"risk_factors"`
	Source      string                   `json:"source"`
	ExtractedAt string                   `json:"extracted_at"`
}

// SectionID is the registry section this handler extracts.
const SectionID = "risk_factors"
