package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"edgar-content-service/internal/common/database"
	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
)

// ErrIndexDisabled reports that no Elasticsearch cluster is
// configured; callers should fall back to document scans.
var ErrIndexDisabled = stderrors.New("section index not configured")

// DefaultSectionsIndex is the Elasticsearch index holding extracted
// section text for content search.
const DefaultSectionsIndex = "filing-sections"

// SectionHit is one content-search match.
type SectionHit struct {
	CIK             string  `json:"cik"`
	AccessionNumber string  `json:"accession_number"`
	Section         string  `json:"section"`
	Score           float64 `json:"score"`
}

// SectionIndex mirrors stored sections into Elasticsearch so filing
// content search can consult the index before scanning documents.
type SectionIndex struct {
	es    *database.ElasticsearchClient
	index string
	log   logger.Logger
}

// NewSectionIndex wraps an Elasticsearch client; es may be nil when
// search infrastructure is not configured.
func NewSectionIndex(es *database.ElasticsearchClient, index string, log logger.Logger) *SectionIndex {
	if index == "" {
		index = DefaultSectionsIndex
	}
	return &SectionIndex{es: es, index: index, log: log}
}

// Enabled reports whether an Elasticsearch cluster backs the index.
func (x *SectionIndex) Enabled() bool {
	return x != nil && x.es != nil && x.es.Client != nil
}

// Index writes one section document. Failures are logged and
// swallowed so indexing never fails an extraction request.
func (x *SectionIndex) Index(ctx context.Context, rec *SectionRecord) {
	if !x.Enabled() || rec == nil {
		return
	}

	doc := map[string]interface{}{
		"cik":              rec.CIK,
		"accession_number": rec.AccessionNumber,
		"section":          rec.Section,
		"content":          rec.Content,
		"char_count":       rec.CharCount,
		"extracted_at":     rec.ExtractedAt.UTC().Format(time.RFC3339),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		x.log.Warn("section index marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}

	req := esapi.IndexRequest{
		Index:      x.index,
		DocumentID: fmt.Sprintf("%s:%s:%s", rec.CIK, rec.AccessionNumber, rec.Section),
		Body:       strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, x.es.Client)
	if err != nil {
		x.log.Warn("section index write failed", map[string]interface{}{
			"cik":       rec.CIK,
			"accession": rec.AccessionNumber,
			"error":     err.Error(),
		})
		return
	}
	defer res.Body.Close()
	if res.IsError() {
		x.log.Warn("section index write rejected", map[string]interface{}{
			"cik":       rec.CIK,
			"accession": rec.AccessionNumber,
			"status":    res.StatusCode,
		})
	}
}

// Search returns sections of one company whose content matches the
// phrase, most relevant first.
func (x *SectionIndex) Search(ctx context.Context, cik, phrase string, size int) ([]SectionHit, error) {
	if !x.Enabled() {
		return nil, ErrIndexDisabled
	}
	if size <= 0 {
		size = 10
	}

	body, err := json.Marshal(buildSectionQuery(cik, phrase))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(x.index, err)
	}

	from := 0
	req := esapi.SearchRequest{
		Index: []string{x.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}
	res, err := req.Do(ctx, x.es.Client)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(x.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return nil, errors.NewIndexNotFoundError(x.index)
		}
		return nil, errors.NewSearchQueryFailedError(x.index, fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed sectionSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(x.index, err)
	}

	hits := make([]SectionHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, SectionHit{
			CIK:             h.Source.CIK,
			AccessionNumber: h.Source.AccessionNumber,
			Section:         h.Source.Section,
			Score:           h.Score,
		})
	}
	return hits, nil
}

// buildSectionQuery restricts a phrase match to one company's
// sections.
func buildSectionQuery(cik, phrase string) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"match_phrase": map[string]interface{}{
							"content": phrase,
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{
							"cik": cik,
						},
					},
				},
			},
		},
		"_source": []string{"cik", "accession_number", "section"},
	}
}

type sectionSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Score  float64 `json:"_score"`
			Source struct {
				CIK             string `json:"cik"`
				AccessionNumber string `json:"accession_number"`
				Section         string `json:"section"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}
