// internal/handlers/search/insider-transactions/models.go
package insidertransactions

import "edgar-content-service/internal/models"

// Input identifies the company whose Form 4 filings to parse. Query
// accepts a CIK or a ticker symbol.
type Input struct {
	Query string `json:"cik"`
	Limit int    `json:"limit,omitempty"`
}

// Output lists parsed insider transactions, newest filings first.
type Output struct {
	CIK          string                      `json:"cik"`
	CompanyName  string                      `json:"company_name"`
	Transactions []models.InsiderTransaction `json:"transactions"`
	Count        int                         `json:"count"`
}

// DefaultLimit applies when the request omits or zeroes the limit.
const DefaultLimit = 50
