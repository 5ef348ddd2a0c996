package compare

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Text
// ==========================

func TestText(t *testing.T) {
	tests := []struct {
		name        string
		text1       string
		text2       string
		wantDelta   int
		significant bool
	}{
		{
			name:        "growth beyond ten percent",
			text1:       strings.Repeat("a", 100),
			text2:       strings.Repeat("a", 120),
			wantDelta:   20,
			significant: true,
		},
		{
			name:        "shrink beyond ten percent",
			text1:       strings.Repeat("a", 200),
			text2:       strings.Repeat("a", 150),
			wantDelta:   -50,
			significant: true,
		},
		{
			name:        "small move",
			text1:       strings.Repeat("a", 100),
			text2:       strings.Repeat("a", 105),
			wantDelta:   5,
			significant: false,
		},
		{
			name:        "exactly ten percent is not significant",
			text1:       strings.Repeat("a", 100),
			text2:       strings.Repeat("a", 110),
			wantDelta:   10,
			significant: false,
		},
		{
			name:        "identical",
			text1:       "same words",
			text2:       "same words",
			wantDelta:   0,
			significant: false,
		},
		{
			name:        "empty baseline",
			text1:       "",
			text2:       "anything",
			wantDelta:   8,
			significant: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Text(tt.text1, tt.text2)
			assert.Equal(t, tt.wantDelta, got.LengthChange)
			assert.Equal(t, tt.significant, got.SignificantChange)
		})
	}
}

// ==========================
// Financials
// ==========================

const compareFactsJSON = `{
  "cik": 320193,
  "entityName": "Apple Inc.",
  "facts": {
    "us-gaap": {
      "Revenues": {
        "units": {
          "USD": [
            {"end": "2022-09-24", "val": 394328000000, "fy": 2022, "fp": "FY", "form": "10-K", "accn": "0000320193-22-000108"},
            {"end": "2023-09-30", "val": 383285000000, "fy": 2023, "fp": "FY", "form": "10-K", "accn": "0000320193-23-000106"}
          ]
        }
      },
      "NetIncomeLoss": {
        "units": {
          "USD": [
            {"end": "2022-09-24", "val": 99803000000, "fy": 2022, "fp": "FY", "form": "10-K", "accn": "0000320193-22-000108"},
            {"end": "2023-09-30", "val": 96995000000, "fy": 2023, "fp": "FY", "form": "10-K", "accn": "0000320193-23-000106"}
          ]
        }
      }
    }
  }
}`

func TestFinancialsComparesBothMetrics(t *testing.T) {
	changes := Financials([]byte(compareFactsJSON), "0000320193-22-000108", "0000320193-23-000106")

	require.Contains(t, changes, "revenue_change")
	require.Contains(t, changes, "profit_change")

	rev := changes["revenue_change"]
	assert.Equal(t, float64(394328000000), rev.From)
	assert.Equal(t, float64(383285000000), rev.To)
	assert.Equal(t, float64(-11043000000), rev.Change)
	assert.Equal(t, -2.8, rev.PercentChange)
	assert.Equal(t, "2022-09-24", rev.FromPeriod)
	assert.Equal(t, "2023-09-30", rev.ToPeriod)

	assert.Negative(t, changes["profit_change"].Change)
}

func TestFinancialsUnknownAccessionOmitsMetric(t *testing.T) {
	changes := Financials([]byte(compareFactsJSON), "0000320193-22-000108", "0000000000-00-000000")

	assert.Empty(t, changes)
}

func TestFinancialsNoFacts(t *testing.T) {
	changes := Financials([]byte(`{"facts": {}}`), "a", "b")

	assert.Empty(t, changes)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 50.0, percentChange(100, 150))
	assert.Equal(t, -25.0, percentChange(200, 150))
	assert.Equal(t, 0.0, percentChange(0, 150))
	assert.Equal(t, 150.0, percentChange(-100, 50))
}
