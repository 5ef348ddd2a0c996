// internal/handlers/search/filing-search/models.go
package filingsearch

import "edgar-content-service/internal/models"

// Input is the /search/filings request body.
type Input = models.FilingSearchRequest

// Output echoes the query and lists the matched filings.
type Output struct {
	Query      *Input                `json:"query"`
	Results    []models.FilingResult `json:"results"`
	TotalFound int                   `json:"total_found"`
}

// DefaultLimit applies when the request omits or zeroes the limit.
const DefaultLimit = 10
