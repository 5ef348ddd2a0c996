// internal/edgar/models.go
package edgar

import "strings"

// TickerEntry is one row of the SEC company ticker directory at
// www.sec.gov/files/company_tickers.json. The file is a JSON object
// keyed by row number, so CIKs arrive as numbers.
type TickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// Submissions is the company submissions payload from
// data.sec.gov/submissions/CIK##########.json.
type Submissions struct {
	CIK            string            `json:"cik"`
	Name           string            `json:"name"`
	Tickers        []string          `json:"tickers"`
	Exchanges      []string          `json:"exchanges"`
	SIC            string            `json:"sic"`
	SICDescription string            `json:"sicDescription"`
	Filings        SubmissionFilings `json:"filings"`
}

type SubmissionFilings struct {
	Recent RecentFilings `json:"recent"`
}

// RecentFilings is column-oriented: index i across all slices describes
// one filing.
type RecentFilings struct {
	AccessionNumber       []string `json:"accessionNumber"`
	FilingDate            []string `json:"filingDate"`
	ReportDate            []string `json:"reportDate"`
	AcceptanceDateTime    []string `json:"acceptanceDateTime"`
	Form                  []string `json:"form"`
	FileNumber            []string `json:"fileNumber"`
	Items                 []string `json:"items"`
	Size                  []int64  `json:"size"`
	IsXBRL                []int    `json:"isXBRL"`
	IsInlineXBRL          []int    `json:"isInlineXBRL"`
	PrimaryDocument       []string `json:"primaryDocument"`
	PrimaryDocDescription []string `json:"primaryDocDescription"`
}

// Filing is one row of RecentFilings pivoted into a record.
type Filing struct {
	CIK                   string
	CompanyName           string
	AccessionNumber       string
	Form                  string
	FilingDate            string
	ReportDate            string
	PrimaryDocument       string
	PrimaryDocDescription string
	Size                  int64
	IsXBRL                bool
}

// Rows pivots the column-oriented recent filings into records. Slices
// shorter than AccessionNumber are treated as missing columns.
func (s *Submissions) Rows() []Filing {
	recent := s.Filings.Recent
	n := len(recent.AccessionNumber)
	rows := make([]Filing, 0, n)

	get := func(col []string, i int) string {
		if i < len(col) {
			return col[i]
		}
		return ""
	}

	for i := 0; i < n; i++ {
		f := Filing{
			CIK:                   s.CIK,
			CompanyName:           s.Name,
			AccessionNumber:       get(recent.AccessionNumber, i),
			Form:                  get(recent.Form, i),
			FilingDate:            get(recent.FilingDate, i),
			ReportDate:            get(recent.ReportDate, i),
			PrimaryDocument:       get(recent.PrimaryDocument, i),
			PrimaryDocDescription: get(recent.PrimaryDocDescription, i),
		}
		if i < len(recent.Size) {
			f.Size = recent.Size[i]
		}
		if i < len(recent.IsXBRL) {
			f.IsXBRL = recent.IsXBRL[i] == 1
		}
		rows = append(rows, f)
	}
	return rows
}

// FilingsByForm filters rows to the given form types. An empty filter
// returns every row. Form matching is case-insensitive and exact, so a
// "10-K" filter does not pick up "10-K/A" amendments.
func (s *Submissions) FilingsByForm(formTypes ...string) []Filing {
	rows := s.Rows()
	if len(formTypes) == 0 {
		return rows
	}

	want := make(map[string]bool, len(formTypes))
	for _, ft := range formTypes {
		want[strings.ToUpper(strings.TrimSpace(ft))] = true
	}

	out := make([]Filing, 0, len(rows))
	for _, f := range rows {
		if want[strings.ToUpper(f.Form)] {
			out = append(out, f)
		}
	}
	return out
}

// FullTextHit is one match from the EDGAR full-text search service.
type FullTextHit struct {
	AccessionNumber string
	Document        string
	CIKs            []string
	DisplayNames    []string
	FileType        string
	FileDate        string
}

// FullTextResult is the decoded full-text search response.
type FullTextResult struct {
	Total int64
	Hits  []FullTextHit
}

// fullTextResponse mirrors the efts.sec.gov wire shape.
type fullTextResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string `json:"_id"`
			Source struct {
				CIKs         []string `json:"ciks"`
				DisplayNames []string `json:"display_names"`
				FileType     string   `json:"file_type"`
				FileDate     string   `json:"file_date"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
