// internal/handlers/extract/financial-statements/models.go
package financialstatements

import (
	"edgar-content-service/internal/extract/financials"
	"edgar-content-service/internal/models"
)

// Input is the shared extraction request body.
type Input = models.ExtractionRequest

// Output is the /extract/financial-statements response. Source is
// always "XBRL Data": the statements come from the companyfacts API,
// not from a rendered document.
type Output struct {
	CIK           string           `json:"cik"`
	CompanyName   string           `json:"company_name"`
	FinancialData *financials.Data `json:"financial_data"`
	Source        string           `json:"source"`
	Period        string           `json:"period"`
}

const SourceName = "XBRL Data"
