// internal/models/filing.go
package models

// FilingSearchRequest is the /search/filings request body. Company
// takes a name or ticker; CIK is used when Company is absent.
type FilingSearchRequest struct {
	Company       string   `json:"company,omitempty"`
	CIK           string   `json:"cik,omitempty"`
	FormTypes     []string `json:"form_types,omitempty"`
	DateFrom      string   `json:"date_from,omitempty"`
	DateTo        string   `json:"date_to,omitempty"`
	ContentSearch string   `json:"content_search,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// FilingResult is one row of a filing search response.
type FilingResult struct {
	AccessionNumber string `json:"accession_number"`
	Form            string `json:"form"`
	FilingDate      string `json:"filing_date"`
	Company         string `json:"company"`
	CIK             string `json:"cik"`
	URL             string `json:"url"`
}
