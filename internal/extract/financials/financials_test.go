package financials

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgar-content-service/internal/common/errors"
)

// Trimmed companyfacts document: two annual revenue facts, a quarterly
// gross profit series, and balance sheet instants. The 2023 10-K also
// restates the prior-year comparative under its own accession number.
const companyFactsJSON = `{
  "cik": 320193,
  "entityName": "Apple Inc.",
  "facts": {
    "dei": {
      "EntityCommonStockSharesOutstanding": {"units": {"shares": []}}
    },
    "us-gaap": {
      "Revenues": {
        "units": {
          "USD": [
            {"end": "2022-09-24", "val": 394328000000, "fy": 2022, "fp": "FY", "form": "10-K", "accn": "0000320193-22-000108"},
            {"end": "2022-09-24", "val": 394328000000, "fy": 2023, "fp": "FY", "form": "10-K", "accn": "0000320193-23-000106"},
            {"end": "2023-09-30", "val": 383285000000, "fy": 2023, "fp": "FY", "form": "10-K", "accn": "0000320193-23-000106"},
            {"end": "2023-12-30", "val": 119575000000, "fy": 2024, "fp": "Q1", "form": "10-Q", "accn": "0000320193-24-000006"}
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
      },
      "GrossProfit": {
        "units": {
          "USD": [
            {"end": "2023-04-01", "val": 41976000000, "fy": 2023, "fp": "Q2", "form": "10-Q", "accn": "0000320193-23-000064"},
            {"end": "2023-07-01", "val": 36413000000, "fy": 2023, "fp": "Q3", "form": "10-Q", "accn": "0000320193-23-000077"}
          ]
        }
      },
      "Assets": {
        "units": {
          "USD": [
            {"end": "2022-09-24", "val": 352755000000, "fy": 2022, "fp": "FY", "form": "10-K", "accn": "0000320193-22-000108"},
            {"end": "2023-09-30", "val": 352583000000, "fy": 2023, "fp": "FY", "form": "10-K", "accn": "0000320193-23-000106"}
          ]
        }
      },
      "StockholdersEquity": {
        "units": {
          "USD": [
            {"end": "2023-09-30", "val": 62146000000, "fy": 2023, "fp": "FY", "form": "10-K", "accn": "0000320193-23-000106"}
          ]
        }
      },
      "NetCashProvidedByUsedInOperatingActivities": {
        "units": {
          "USD": [
            {"end": "2023-09-30", "val": 110543000000, "fy": 2023, "fp": "FY", "form": "10-K", "accn": "0000320193-23-000106"}
          ]
        }
      }
    }
  }
}`

// ==========================
// Extract
// ==========================

func TestExtractLatestAnnualValues(t *testing.T) {
	d, err := Extract([]byte(companyFactsJSON))
	require.NoError(t, err)

	rev, ok := d.IncomeStatement["Revenues"]
	require.True(t, ok)
	assert.Equal(t, float64(383285000000), rev.Value)
	assert.Equal(t, "2023-09-30", rev.End)
	assert.Equal(t, "10-K", rev.Form)
	assert.Equal(t, "USD", rev.Unit)

	ni, ok := d.IncomeStatement["NetIncomeLoss"]
	require.True(t, ok)
	assert.Equal(t, float64(96995000000), ni.Value)

	assets, ok := d.BalanceSheet["Assets"]
	require.True(t, ok)
	assert.Equal(t, float64(352583000000), assets.Value)

	ocf, ok := d.CashFlow["NetCashProvidedByUsedInOperatingActivities"]
	require.True(t, ok)
	assert.Equal(t, float64(110543000000), ocf.Value)
}

func TestExtractAnnualPreferredOverLaterQuarter(t *testing.T) {
	// The Q1 FY2024 revenue fact ends after the FY2023 annual fact but
	// must not displace it.
	d, err := Extract([]byte(companyFactsJSON))
	require.NoError(t, err)

	assert.Equal(t, "2023-09-30", d.IncomeStatement["Revenues"].End)
	assert.Equal(t, "FY", d.IncomeStatement["Revenues"].FP)
}

func TestExtractQuarterlyFallback(t *testing.T) {
	// GrossProfit was never tagged in an annual report; the latest
	// quarterly fact is used instead.
	d, err := Extract([]byte(companyFactsJSON))
	require.NoError(t, err)

	gp, ok := d.IncomeStatement["GrossProfit"]
	require.True(t, ok)
	assert.Equal(t, float64(36413000000), gp.Value)
	assert.Equal(t, "2023-07-01", gp.End)
}

func TestExtractKeyMetrics(t *testing.T) {
	d, err := Extract([]byte(companyFactsJSON))
	require.NoError(t, err)

	assert.Equal(t, float64(383285000000), d.KeyMetrics["revenue"])
	assert.Equal(t, float64(96995000000), d.KeyMetrics["net_income"])
	assert.Equal(t, float64(36413000000), d.KeyMetrics["gross_profit"])
	assert.Equal(t, float64(352583000000), d.KeyMetrics["total_assets"])
	assert.Equal(t, float64(62146000000), d.KeyMetrics["shareholders_equity"])

	// Liabilities are absent from the fixture; the metric defaults to 0.
	assert.Equal(t, float64(0), d.KeyMetrics["total_liabilities"])
}

func TestExtractPeriod(t *testing.T) {
	d, err := Extract([]byte(companyFactsJSON))
	require.NoError(t, err)

	assert.Equal(t, "2023-09-30", d.Period())
}

func TestExtractNoFacts(t *testing.T) {
	_, err := Extract([]byte(`{"cik": 99, "entityName": "Shell Co", "facts": {"dei": {}}}`))

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeFinancialDataNotFound, stdErr.Code)
}

func TestEntityName(t *testing.T) {
	assert.Equal(t, "Apple Inc.", EntityName([]byte(companyFactsJSON)))
	assert.Equal(t, "", EntityName([]byte(`{}`)))
}

// ==========================
// AccessionValue
// ==========================

func TestAccessionValuePicksFilingOwnPeriod(t *testing.T) {
	// The 2023 10-K reports both the FY2023 value and the restated
	// FY2022 comparative; its own period has the later end date.
	v, ok := AccessionValue([]byte(companyFactsJSON), RevenueConcepts, "0000320193-23-000106")

	require.True(t, ok)
	assert.Equal(t, float64(383285000000), v.Value)
	assert.Equal(t, "2023-09-30", v.End)
}

func TestAccessionValuePriorFiling(t *testing.T) {
	v, ok := AccessionValue([]byte(companyFactsJSON), RevenueConcepts, "0000320193-22-000108")

	require.True(t, ok)
	assert.Equal(t, float64(394328000000), v.Value)
}

func TestAccessionValueUnknownAccession(t *testing.T) {
	_, ok := AccessionValue([]byte(companyFactsJSON), RevenueConcepts, "0000000000-00-000000")

	assert.False(t, ok)
}

func TestAccessionValueConceptPreference(t *testing.T) {
	// Net income resolution ignores revenue concepts entirely.
	v, ok := AccessionValue([]byte(companyFactsJSON), NetIncomeConcepts, "0000320193-23-000106")

	require.True(t, ok)
	assert.Equal(t, float64(96995000000), v.Value)
}
