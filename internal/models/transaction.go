// internal/models/transaction.go
package models

// InsiderTransaction is one non-derivative transaction line parsed
// from a Form 4 ownership document.
type InsiderTransaction struct {
	Owner            string  `json:"owner"`
	Relationship     string  `json:"relationship"`
	TransactionDate  string  `json:"transaction_date"`
	TransactionType  string  `json:"transaction_type"`
	SecurityTitle    string  `json:"security_title"`
	Shares           float64 `json:"shares"`
	PricePerShare    float64 `json:"price_per_share"`
	TotalValue       float64 `json:"total_value"`
	SharesOwnedAfter float64 `json:"shares_owned_after"`
	Ownership        string  `json:"ownership"`
	AccessionNumber  string  `json:"accession_number"`
	FilingDate       string  `json:"filing_date"`
}
