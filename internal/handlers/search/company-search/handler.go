// internal/handlers/search/company-search/handler.go
package companysearch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/directory"
)

const (
	HandlerName = "company-search"
)

type Handler struct {
	config    *Config
	directory *directory.Directory
	logger    logger.Logger
	errors    *errors.ErrorHandler
}

func NewHandler(config *Config, dir *directory.Directory, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"handler": HandlerName})
	return &Handler{
		config:    config,
		directory: dir,
		logger:    l,
		errors:    errors.NewErrorHandler(l),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	input := &Input{Query: r.URL.Query().Get("q")}

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

// execute resolves the query against the company directory. A company
// that cannot be resolved is a found:false result, not an error; only
// a missing query parameter fails the request.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidRequestError("input cannot be nil")
	}
	if strings.TrimSpace(input.Query) == "" {
		return nil, errors.NewInvalidRequestError("q parameter is required")
	}

	match, err := h.directory.Resolve(ctx, input.Query)
	if err != nil {
		h.logger.Info("company search miss", map[string]interface{}{
			"query": input.Query,
			"error": err.Error(),
		})
		return &Output{
			Found: false,
			Query: input.Query,
			Error: publicMessage(err),
		}, nil
	}

	h.logger.Info("company resolved", map[string]interface{}{
		"query":      input.Query,
		"cik":        match.CIK,
		"ticker":     match.Ticker,
		"confidence": match.Confidence,
	})

	return &Output{
		Found:      true,
		CIK:        match.CIK,
		Name:       match.Name,
		Ticker:     match.Ticker,
		Confidence: match.Confidence,
	}, nil
}

// publicMessage strips internal error formatting for the response body.
func publicMessage(err error) string {
	var stdErr *errors.StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Message
	}
	return err.Error()
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
