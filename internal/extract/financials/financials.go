// Package financials structures raw XBRL companyfacts JSON into
// statement maps and headline metrics. Facts documents run to several
// megabytes, so traversal uses gjson instead of full unmarshalling.
package financials

import (
	"github.com/tidwall/gjson"

	"edgar-content-service/internal/common/errors"
)

// Value is a single reported fact, annotated with its period and the
// filing that reported it.
type Value struct {
	Value float64 `json:"value"`
	End   string  `json:"end"`
	Form  string  `json:"form"`
	FY    int64   `json:"fiscal_year"`
	FP    string  `json:"fiscal_period"`
	Unit  string  `json:"unit"`
}

// Data holds the structured statements extracted from companyfacts.
type Data struct {
	IncomeStatement map[string]Value   `json:"income_statement"`
	BalanceSheet    map[string]Value   `json:"balance_sheet"`
	CashFlow        map[string]Value   `json:"cash_flow"`
	KeyMetrics      map[string]float64 `json:"key_metrics"`
}

// us-gaap concepts reported per statement. Companies tag revenue under
// either the legacy or the ASC 606 concept, so both are carried.
var incomeStatementConcepts = []string{
	"Revenues",
	"RevenueFromContractWithCustomerExcludingAssessedTax",
	"CostOfRevenue",
	"CostOfGoodsAndServicesSold",
	"GrossProfit",
	"OperatingExpenses",
	"ResearchAndDevelopmentExpense",
	"SellingGeneralAndAdministrativeExpense",
	"OperatingIncomeLoss",
	"IncomeTaxExpenseBenefit",
	"NetIncomeLoss",
	"EarningsPerShareBasic",
	"EarningsPerShareDiluted",
}

var balanceSheetConcepts = []string{
	"Assets",
	"AssetsCurrent",
	"CashAndCashEquivalentsAtCarryingValue",
	"Liabilities",
	"LiabilitiesCurrent",
	"LongTermDebtNoncurrent",
	"StockholdersEquity",
	"RetainedEarningsAccumulatedDeficit",
}

var cashFlowConcepts = []string{
	"NetCashProvidedByUsedInOperatingActivities",
	"NetCashProvidedByUsedInInvestingActivities",
	"NetCashProvidedByUsedInFinancingActivities",
	"PaymentsToAcquirePropertyPlantAndEquipment",
	"PaymentsOfDividends",
}

// Concept preference per headline metric, most specific first.
var (
	RevenueConcepts = []string{
		"Revenues",
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"SalesRevenueNet",
	}
	NetIncomeConcepts = []string{"NetIncomeLoss", "ProfitLoss"}
)

var keyMetricConcepts = []struct {
	name     string
	concepts []string
}{
	{"revenue", RevenueConcepts},
	{"net_income", NetIncomeConcepts},
	{"gross_profit", []string{"GrossProfit"}},
	{"total_assets", []string{"Assets"}},
	{"total_liabilities", []string{"Liabilities"}},
	{"shareholders_equity", []string{
		"StockholdersEquity",
		"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
	}},
}

// Extract structures raw companyfacts JSON from the latest annual facts.
// Returns FINANCIAL_DATA_NOT_FOUND when the document has no us-gaap facts.
func Extract(raw []byte) (*Data, error) {
	root := gjson.ParseBytes(raw)
	facts := root.Get("facts.us-gaap")
	if !facts.Exists() {
		return nil, errors.NewFinancialDataNotFoundError(root.Get("cik").String())
	}

	d := &Data{
		IncomeStatement: make(map[string]Value),
		BalanceSheet:    make(map[string]Value),
		CashFlow:        make(map[string]Value),
	}
	fill := func(dst map[string]Value, concepts []string) {
		for _, c := range concepts {
			if v, ok := latestAnnual(facts, c); ok {
				dst[c] = v
			}
		}
	}
	fill(d.IncomeStatement, incomeStatementConcepts)
	fill(d.BalanceSheet, balanceSheetConcepts)
	fill(d.CashFlow, cashFlowConcepts)

	d.KeyMetrics = keyMetrics(facts)
	if len(d.IncomeStatement) == 0 && len(d.BalanceSheet) == 0 && len(d.CashFlow) == 0 {
		return nil, errors.NewFinancialDataNotFoundError(root.Get("cik").String())
	}
	return d, nil
}

// Period reports the latest fiscal period end covered by the data.
func (d *Data) Period() string {
	var latest string
	for _, m := range []map[string]Value{d.IncomeStatement, d.BalanceSheet, d.CashFlow} {
		for _, v := range m {
			if v.End > latest {
				latest = v.End
			}
		}
	}
	if latest == "" {
		return "Latest"
	}
	return latest
}

// EntityName reads the registrant name from companyfacts JSON.
func EntityName(raw []byte) string {
	return gjson.GetBytes(raw, "entityName").String()
}

// AccessionValue resolves a headline metric as reported by a specific
// filing, trying each concept in preference order.
func AccessionValue(raw []byte, concepts []string, accession string) (Value, bool) {
	facts := gjson.ParseBytes(raw).Get("facts.us-gaap")
	if !facts.Exists() {
		return Value{}, false
	}
	for _, c := range concepts {
		if v, ok := accessionFact(facts, c, accession); ok {
			return v, true
		}
	}
	return Value{}, false
}

func keyMetrics(facts gjson.Result) map[string]float64 {
	metrics := make(map[string]float64, len(keyMetricConcepts))
	for _, km := range keyMetricConcepts {
		metrics[km.name] = 0
		for _, concept := range km.concepts {
			if v, ok := latestAnnual(facts, concept); ok {
				metrics[km.name] = v.Value
				break
			}
		}
	}
	return metrics
}

// latestAnnual returns the most recent annual (10-K, FY) fact for a
// concept, falling back to the most recent fact of any period when a
// company has never tagged the concept in an annual report.
func latestAnnual(facts gjson.Result, concept string) (Value, bool) {
	units := facts.Get(concept + ".units")
	if !units.Exists() {
		return Value{}, false
	}

	var best Value
	var found, bestAnnual bool
	units.ForEach(func(unit, entries gjson.Result) bool {
		entries.ForEach(func(_, e gjson.Result) bool {
			end := e.Get("end").String()
			if end == "" {
				return true
			}
			annual := e.Get("form").String() == "10-K" && e.Get("fp").String() == "FY"
			switch {
			case annual && !bestAnnual:
			case annual == bestAnnual && (!found || end > best.End):
			default:
				return true
			}
			best = factValue(e, unit.String())
			found = true
			bestAnnual = annual
			return true
		})
		return true
	})
	return best, found
}

// accessionFact finds the fact a given filing reported for its own
// fiscal period: the entry with the matching accession number and the
// latest period end, annual entries preferred.
func accessionFact(facts gjson.Result, concept, accession string) (Value, bool) {
	units := facts.Get(concept + ".units")
	if !units.Exists() {
		return Value{}, false
	}

	var best Value
	var found, bestAnnual bool
	units.ForEach(func(unit, entries gjson.Result) bool {
		entries.ForEach(func(_, e gjson.Result) bool {
			if e.Get("accn").String() != accession {
				return true
			}
			end := e.Get("end").String()
			if end == "" {
				return true
			}
			annual := e.Get("fp").String() == "FY"
			switch {
			case annual && !bestAnnual:
			case annual == bestAnnual && (!found || end > best.End):
			default:
				return true
			}
			best = factValue(e, unit.String())
			found = true
			bestAnnual = annual
			return true
		})
		return true
	})
	return best, found
}

func factValue(e gjson.Result, unit string) Value {
	return Value{
		Value: e.Get("val").Float(),
		End:   e.Get("end").String(),
		Form:  e.Get("form").String(),
		FY:    e.Get("fy").Int(),
		FP:    e.Get("fp").String(),
		Unit:  unit,
	}
}
