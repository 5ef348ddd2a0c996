// internal/handlers/search/company-search/models.go
package companysearch

type Input struct {
	Query string `json:"q"`
}

// Output is the /search/company response. A hit carries the company
// fields; a miss echoes the query with the failure reason. Both are
// served with status 200.
type Output struct {
	Found      bool    `json:"found"`
	CIK        string  `json:"cik,omitempty"`
	Name       string  `json:"name,omitempty"`
	Ticker     string  `json:"ticker,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Query      string  `json:"query,omitempty"`
	Error      string  `json:"error,omitempty"`
}
