// Package compare measures how filing sections and reported financials
// moved between two filings of the same company.
package compare

import (
	"math"

	"edgar-content-service/internal/extract/financials"
)

// TextChange summarizes how a section's length moved between filings.
// A move of more than 10% of the older section counts as significant.
type TextChange struct {
	LengthChange      int  `json:"length_change"`
	SignificantChange bool `json:"significant_change"`
}

// FinancialChange captures a headline metric's movement between the
// periods reported by two filings.
type FinancialChange struct {
	From          float64 `json:"from"`
	To            float64 `json:"to"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	FromPeriod    string  `json:"from_period"`
	ToPeriod      string  `json:"to_period"`
}

// Text compares two section texts by length.
func Text(text1, text2 string) TextChange {
	delta := len(text2) - len(text1)
	return TextChange{
		LengthChange:      delta,
		SignificantChange: math.Abs(float64(delta)) > float64(len(text1))*0.1,
	}
}

// Financials compares revenue and net income as reported by two filings,
// resolved from the company's XBRL facts by accession number. Metrics a
// filing pair never reported are omitted.
func Financials(factsJSON []byte, accession1, accession2 string) map[string]FinancialChange {
	changes := make(map[string]FinancialChange)

	metrics := []struct {
		key      string
		concepts []string
	}{
		{"revenue_change", financials.RevenueConcepts},
		{"profit_change", financials.NetIncomeConcepts},
	}
	for _, m := range metrics {
		from, ok1 := financials.AccessionValue(factsJSON, m.concepts, accession1)
		to, ok2 := financials.AccessionValue(factsJSON, m.concepts, accession2)
		if !ok1 || !ok2 {
			continue
		}
		changes[m.key] = FinancialChange{
			From:          from.Value,
			To:            to.Value,
			Change:        to.Value - from.Value,
			PercentChange: percentChange(from.Value, to.Value),
			FromPeriod:    from.End,
			ToPeriod:      to.End,
		}
	}
	return changes
}

func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return math.Round((to-from)/math.Abs(from)*10000) / 100
}
