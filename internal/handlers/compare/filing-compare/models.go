// internal/handlers/compare/filing-compare/models.go
package filingcompare

import "edgar-content-service/internal/extract/compare"

// Input carries the comparison query parameters.
type Input struct {
	CIK        string `json:"cik"`
	Accession1 string `json:"filing1_accession"`
	Accession2 string `json:"filing2_accession"`
}

// FilingInfo identifies one side of the comparison.
type FilingInfo struct {
	AccessionNumber string `json:"accession_number"`
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"`
}

// Changes aggregates the section and financial movements between the
// two filings.
type Changes struct {
	BusinessChanges     compare.TextChange                 `json:"business_changes"`
	RiskChanges         compare.TextChange                 `json:"risk_changes"`
	FinancialHighlights map[string]compare.FinancialChange `json:"financial_highlights"`
}

// Output is the /compare/filings response.
type Output struct {
	CIK         string     `json:"cik"`
	CompanyName string     `json:"company_name"`
	Changes     Changes    `json:"changes"`
	Filing1     FilingInfo `json:"filing1"`
	Filing2     FilingInfo `json:"filing2"`
}
