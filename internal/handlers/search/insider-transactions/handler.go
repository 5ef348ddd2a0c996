// internal/handlers/search/insider-transactions/handler.go
package insidertransactions

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
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
	HandlerName = "insider-transactions"
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

	input := &Input{Query: r.URL.Query().Get("cik")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			h.errors.HandleRequestError(w, r, errors.NewInvalidRequestError("limit must be an integer"))
			return
		}
		input.Limit = limit
	}

	output, err := h.execute(ctx, input)
	if err != nil {
		h.errors.HandleRequestError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// execute parses the company's recent Form 4 filings into transaction
// rows. One filing can report several transactions; rows accumulate in
// filing order (newest first) and are cut at the limit.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequestError("cik parameter is required")
	}

	cik, err := h.resolveCIK(ctx, query)
	if err != nil {
		return nil, err
	}
	limit := validation.ClampLimit(input.Limit, DefaultLimit, h.config.MaxLimit)

	subs, err := h.filings.Submissions(ctx, cik)
	if err != nil {
		return nil, err
	}

	form4s := subs.FilingsByForm("4")
	if len(form4s) > limit {
		form4s = form4s[:limit]
	}

	parsed := make([][]models.InsiderTransaction, len(form4s))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.config.MaxConcurrentFetch)
	var mu sync.Mutex
	for i, f := range form4s {
		i, f := i, f
		g.Go(func() error {
			rows, err := h.parseFiling(gctx, f)
			if err != nil {
				// A filing that cannot be fetched or parsed drops out
				// of the result rather than failing the request.
				h.logger.Warn("skipping form 4 filing", map[string]interface{}{
					"accession": f.AccessionNumber,
					"error":     err.Error(),
				})
				return nil
			}
			mu.Lock()
			parsed[i] = rows
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	transactions := make([]models.InsiderTransaction, 0, limit)
	for _, rows := range parsed {
		transactions = append(transactions, rows...)
	}
	if len(transactions) > limit {
		transactions = transactions[:limit]
	}

	return &Output{
		CIK:          validation.TrimCIK(cik),
		CompanyName:  filings.CompanyNameFallback(subs.Name, cik),
		Transactions: transactions,
		Count:        len(transactions),
	}, nil
}

// resolveCIK accepts a raw CIK directly and routes anything else, like
// a ticker symbol, through the company directory.
func (h *Handler) resolveCIK(ctx context.Context, query string) (string, error) {
	if _, err := validation.NormalizeCIK(query); err == nil {
		return query, nil
	}
	match, err := h.directory.Resolve(ctx, query)
	if err != nil {
		return "", err
	}
	return match.CIK, nil
}

func (h *Handler) parseFiling(ctx context.Context, f edgar.Filing) ([]models.InsiderTransaction, error) {
	raw, err := h.filings.Client().PrimaryDocument(ctx, f)
	if err != nil {
		return nil, err
	}
	doc, err := edgar.ParseForm4(raw)
	if err != nil {
		return nil, err
	}

	rows := make([]models.InsiderTransaction, 0, len(doc.NonDerivative.Transactions))
	for _, tx := range doc.NonDerivative.Transactions {
		rows = append(rows, models.InsiderTransaction{
			Owner:            doc.OwnerName(),
			Relationship:     doc.OwnerRelationship(),
			TransactionDate:  tx.Date,
			TransactionType:  edgar.TransactionLabel(tx.Code, tx.AcquiredDisposed),
			SecurityTitle:    tx.SecurityTitle,
			Shares:           tx.Shares,
			PricePerShare:    tx.PricePerShare,
			TotalValue:       tx.Shares * tx.PricePerShare,
			SharesOwnedAfter: tx.SharesOwnedAfter,
			Ownership:        ownershipLabel(tx.DirectOrIndirect),
			AccessionNumber:  f.AccessionNumber,
			FilingDate:       f.FilingDate,
		})
	}
	return rows, nil
}

func ownershipLabel(directOrIndirect string) string {
	switch strings.ToUpper(strings.TrimSpace(directOrIndirect)) {
	case "D":
		return "Direct"
	case "I":
		return "Indirect"
	}
	return directOrIndirect
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
