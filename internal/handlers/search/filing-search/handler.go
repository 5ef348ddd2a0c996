// internal/handlers/search/filing-search/handler.go
package filingsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/common/validation"
	"edgar-content-service/internal/directory"
	"edgar-content-service/internal/edgar"
	"edgar-content-service/internal/filings"
	"edgar-content-service/internal/models"
)

const (
	HandlerName = "filing-search"
)

type Handler struct {
	config    *Config
	directory *directory.Directory
	filings   *filings.Service
	logger    logger.Logger
	errors    *errors.ErrorHandler
}

func NewHandler(config *Config, dir *directory.Directory, svc *filings.Service, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"handler": HandlerName})
	return &Handler{
		config:    config.normalized(),
		directory: dir,
		filings:   svc,
		logger:    l,
		errors:    errors.NewErrorHandler(l),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.errors.HandleRequestError(w, r, errors.NewInvalidRequestError("request body must be valid JSON"))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute runs the filing search. Scope resolution falls through CIK,
// then company name, then (for content searches) the cross-company
// full-text service; a request with no resolvable scope and no content
// query returns an empty result rather than an error.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	if input.DateFrom != "" {
		if err := validation.ValidateDate(input.DateFrom); err != nil {
			return nil, errors.NewInvalidRequestError("date_from must be YYYY-MM-DD")
		}
	}
	if input.DateTo != "" {
		if err := validation.ValidateDate(input.DateTo); err != nil {
			return nil, errors.NewInvalidRequestError("date_to must be YYYY-MM-DD")
		}
	}

	limit := validation.ClampLimit(input.Limit, DefaultLimit, h.config.MaxLimit)
	contentQuery := strings.TrimSpace(input.ContentSearch)

	cik := strings.TrimSpace(input.CIK)
	if cik == "" && strings.TrimSpace(input.Company) != "" {
		match, err := h.directory.Resolve(ctx, input.Company)
		if err != nil {
			h.logger.Info("filing search company unresolved", map[string]interface{}{
				"company": input.Company,
				"error":   err.Error(),
			})
			return emptyOutput(input), nil
		}
		cik = match.CIK
	}

	if cik == "" {
		if contentQuery != "" {
			return h.fullTextResults(ctx, input, contentQuery, limit)
		}
		return emptyOutput(input), nil
	}

	subs, err := h.filings.Submissions(ctx, cik)
	if err != nil {
		return nil, err
	}

	candidates := filterByDate(subs.FilingsByForm(input.FormTypes...), input.DateFrom, input.DateTo)

	var matched []edgar.Filing
	if contentQuery == "" {
		matched = candidates
	} else {
		matched = h.contentMatches(ctx, cik, candidates, contentQuery, limit)
	}

	if len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]models.FilingResult, 0, len(matched))
	for _, f := range matched {
		results = append(results, models.FilingResult{
			AccessionNumber: f.AccessionNumber,
			Form:            f.Form,
			FilingDate:      f.FilingDate,
			Company:         subs.Name,
			CIK:             validation.TrimCIK(f.CIK),
			URL:             h.filings.Client().FilingIndexURL(f.CIK, f.AccessionNumber),
		})
	}

	return &Output{Query: input, Results: results, TotalFound: len(results)}, nil
}

// contentMatches filters candidates to those whose content carries the
// query. The section index answers first; filings it has never seen
// fall back to a bounded concurrent document scan.
func (h *Handler) contentMatches(ctx context.Context, cik string, candidates []edgar.Filing, query string, limit int) []edgar.Filing {
	if hits, err := h.filings.SearchSections(ctx, cik, query, limit); err == nil && len(hits) > 0 {
		indexed := make(map[string]bool, len(hits))
		for _, hit := range hits {
			indexed[hit.AccessionNumber] = true
		}
		matched := make([]edgar.Filing, 0, limit)
		for _, f := range candidates {
			if indexed[f.AccessionNumber] {
				matched = append(matched, f)
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}

	scan := candidates
	if len(scan) > h.config.ScanCap {
		scan = scan[:h.config.ScanCap]
	}

	needle := strings.ToLower(query)
	hits := make([]bool, len(scan))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.MaxConcurrentFetch)
	var mu sync.Mutex
	for i, f := range scan {
		i, f := i, f
		g.Go(func() error {
			text, err := h.filings.DocumentText(gctx, f)
			if err != nil {
				// Unfetchable documents are skipped, per the search
				// contract.
				h.logger.Warn("content scan skipping document", map[string]interface{}{
					"accession": f.AccessionNumber,
					"error":     err.Error(),
				})
				return nil
			}
			if strings.Contains(strings.ToLower(text), needle) {
				mu.Lock()
				hits[i] = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	matched := make([]edgar.Filing, 0, limit)
	for i, f := range scan {
		if hits[i] {
			matched = append(matched, f)
		}
	}
	return matched
}

// fullTextResults serves content searches with no company scope through
// the EDGAR full-text service. Best-effort: upstream failure degrades
// to an empty result instead of failing the request.
func (h *Handler) fullTextResults(ctx context.Context, input *Input, query string, limit int) (*Output, error) {
	res, err := h.filings.Client().FullTextSearch(ctx, query, input.FormTypes, input.DateFrom, input.DateTo)
	if err != nil {
		h.logger.Warn("full-text search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return emptyOutput(input), nil
	}

	results := make([]models.FilingResult, 0, limit)
	for _, hit := range res.Hits {
		if len(results) >= limit {
			break
		}
		r := models.FilingResult{
			AccessionNumber: hit.AccessionNumber,
			Form:            hit.FileType,
			FilingDate:      hit.FileDate,
		}
		if len(hit.DisplayNames) > 0 {
			r.Company = hit.DisplayNames[0]
		}
		if len(hit.CIKs) > 0 {
			r.CIK = validation.TrimCIK(hit.CIKs[0])
			r.URL = h.filings.Client().FilingIndexURL(r.CIK, hit.AccessionNumber)
		}
		results = append(results, r)
	}

	return &Output{Query: input, Results: results, TotalFound: len(results)}, nil
}

// filterByDate keeps filings inside the inclusive [from, to] window.
// EDGAR dates are YYYY-MM-DD, so string comparison orders correctly.
func filterByDate(rows []edgar.Filing, from, to string) []edgar.Filing {
	if from == "" && to == "" {
		return rows
	}
	out := make([]edgar.Filing, 0, len(rows))
	for _, f := range rows {
		if from != "" && f.FilingDate < from {
			continue
		}
		if to != "" && f.FilingDate > to {
			continue
		}
		out = append(out, f)
	}
	return out
}

func emptyOutput(input *Input) *Output {
	return &Output{Query: input, Results: []models.FilingResult{}, TotalFound: 0}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
