// internal/edgar/endpoints.go
package edgar

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/validation"
)

// CompanyTickers downloads the SEC company ticker directory. Rows come
// back sorted the way the file lists them, which is roughly by market
// cap descending.
func (c *Client) CompanyTickers(ctx context.Context) ([]TickerEntry, error) {
	u := c.config.ArchivesBaseURL + "/files/company_tickers.json"
	body, err := c.get(ctx, u, "company-tickers")
	if err != nil {
		return nil, err
	}

	// The file is an object keyed by row number, not an array.
	var raw map[string]TickerEntry
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse company tickers: %w", err)
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return len(keys[i]) < len(keys[j]) || (len(keys[i]) == len(keys[j]) && keys[i] < keys[j])
	})

	entries := make([]TickerEntry, 0, len(raw))
	for _, k := range keys {
		entries = append(entries, raw[k])
	}
	return entries, nil
}

// Submissions fetches the filing history for a company. The CIK may be
// padded or not.
func (c *Client) Submissions(ctx context.Context, cik string) (*Submissions, error) {
	cik10, err := validation.NormalizeCIK(cik)
	if err != nil {
		return nil, errors.NewInvalidCIKError(cik)
	}

	u := fmt.Sprintf("%s/submissions/CIK%s.json", c.config.DataBaseURL, cik10)
	body, err := c.get(ctx, u, "submissions")
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, errors.NewCompanyNotFoundError(cik)
		}
		return nil, err
	}

	var subs Submissions
	if err := json.Unmarshal(body, &subs); err != nil {
		return nil, fmt.Errorf("parse submissions for CIK %s: %w", cik10, err)
	}
	return &subs, nil
}

// CompanyFacts fetches the XBRL company facts payload as raw JSON. The
// payload runs to megabytes, so callers query it with gjson paths
// instead of unmarshaling the whole tree.
func (c *Client) CompanyFacts(ctx context.Context, cik string) ([]byte, error) {
	cik10, err := validation.NormalizeCIK(cik)
	if err != nil {
		return nil, errors.NewInvalidCIKError(cik)
	}

	u := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.config.DataBaseURL, cik10)
	body, err := c.get(ctx, u, "company-facts")
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, errors.NewFinancialDataNotFoundError(cik10)
		}
		return nil, err
	}
	return body, nil
}

// FullTextSearch queries the EDGAR full-text search service. Forms and
// the date window are optional.
func (c *Client) FullTextSearch(ctx context.Context, query string, forms []string, dateFrom, dateTo string) (*FullTextResult, error) {
	params := url.Values{}
	params.Set("q", query)
	if len(forms) > 0 {
		params.Set("forms", strings.Join(forms, ","))
	}
	if dateFrom != "" || dateTo != "" {
		params.Set("dateRange", "custom")
		if dateFrom != "" {
			params.Set("startdt", dateFrom)
		}
		if dateTo != "" {
			params.Set("enddt", dateTo)
		}
	}

	u := c.config.FullTextBaseURL + "/LATEST/search-index?" + params.Encode()
	body, err := c.get(ctx, u, "full-text-search")
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return &FullTextResult{}, nil
		}
		return nil, err
	}

	var raw fullTextResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse full-text response: %w", err)
	}

	result := &FullTextResult{Total: raw.Hits.Total.Value}
	for _, h := range raw.Hits.Hits {
		hit := FullTextHit{
			CIKs:         h.Source.CIKs,
			DisplayNames: h.Source.DisplayNames,
			FileType:     h.Source.FileType,
			FileDate:     h.Source.FileDate,
		}
		// _id is "accession:document"
		if i := strings.IndexByte(h.ID, ':'); i >= 0 {
			hit.AccessionNumber = h.ID[:i]
			hit.Document = h.ID[i+1:]
		} else {
			hit.AccessionNumber = h.ID
		}
		result.Hits = append(result.Hits, hit)
	}
	return result, nil
}

// Document downloads one file from a filing's archive directory.
func (c *Client) Document(ctx context.Context, cik, accession, filename string) ([]byte, error) {
	accDashed, err := validation.NormalizeAccession(accession)
	if err != nil {
		return nil, errors.NewInvalidAccessionError(accession)
	}

	u := fmt.Sprintf(
		"%s/Archives/edgar/data/%s/%s/%s",
		c.config.ArchivesBaseURL,
		validation.TrimCIK(cik),
		validation.AccessionNoDashes(accDashed),
		filename,
	)
	body, err := c.get(ctx, u, "document")
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, errors.NewAccessionNotFoundError(accDashed)
		}
		return nil, err
	}
	return body, nil
}

// PrimaryDocument downloads the primary document of a filing row. Styled
// primary documents like xslF345X05/form4.xml resolve to the raw file
// underneath the style sheet path.
func (c *Client) PrimaryDocument(ctx context.Context, f Filing) ([]byte, error) {
	doc := f.PrimaryDocument
	if i := strings.IndexByte(doc, '/'); i >= 0 {
		doc = doc[i+1:]
	}
	if doc == "" {
		return nil, errors.NewDocumentFetchFailedError(f.AccessionNumber, fmt.Errorf("filing has no primary document"))
	}
	return c.Document(ctx, f.CIK, f.AccessionNumber, doc)
}

// FilingIndexURL returns the public index page for a filing.
func (c *Client) FilingIndexURL(cik, accession string) string {
	return fmt.Sprintf(
		"%s/Archives/edgar/data/%s/%s/%s-index.html",
		c.config.ArchivesBaseURL,
		validation.TrimCIK(cik),
		validation.AccessionNoDashes(accession),
		accession,
	)
}
