// Package filings is the shared retrieval layer behind the extraction
// and comparison handlers: submissions and XBRL facts with Redis
// read-through, filing selection by accession or latest form, and
// section text with section-store read-through.
package filings

import (
	"context"
	"strings"
	"time"

	"edgar-content-service/internal/common/errors"
	"edgar-content-service/internal/common/logger"
	"edgar-content-service/internal/common/metrics"
	"edgar-content-service/internal/common/validation"
	"edgar-content-service/internal/edgar"
	"edgar-content-service/internal/extract/htmltext"
	"edgar-content-service/internal/extract/sections"
	"edgar-content-service/internal/store"
	"edgar-content-service/pkg/forms"
)

// TTLConfig bounds how long cached upstream payloads are served.
type TTLConfig struct {
	Submissions time.Duration
	Facts       time.Duration
}

// Service resolves filings and their section text. The cache, section
// store and section index may all be disabled; the service then works
// directly against EDGAR.
type Service struct {
	client   *edgar.Client
	cache    *edgar.Cache
	sections *store.SectionStore
	index    *store.SectionIndex
	registry *forms.FormRegistry
	ttl      TTLConfig
	logger   logger.Logger
}

func NewService(
	client *edgar.Client,
	cache *edgar.Cache,
	sectionStore *store.SectionStore,
	sectionIndex *store.SectionIndex,
	registry *forms.FormRegistry,
	ttl TTLConfig,
	log logger.Logger,
) *Service {
	if ttl.Submissions <= 0 {
		ttl.Submissions = 15 * time.Minute
	}
	if ttl.Facts <= 0 {
		ttl.Facts = 6 * time.Hour
	}
	return &Service{
		client:   client,
		cache:    cache,
		sections: sectionStore,
		index:    sectionIndex,
		registry: registry,
		ttl:      ttl,
		logger:   log.WithFields(map[string]interface{}{"component": "filings-service"}),
	}
}

// Client exposes the underlying EDGAR client for callers that need the
// raw endpoints, like full-text search.
func (s *Service) Client() *edgar.Client {
	return s.client
}

// Registry exposes the form registry backing section extraction.
func (s *Service) Registry() *forms.FormRegistry {
	return s.registry
}

// Submissions fetches a company's filing history through the cache.
func (s *Service) Submissions(ctx context.Context, cik string) (*edgar.Submissions, error) {
	cik10, err := validation.NormalizeCIK(cik)
	if err != nil {
		return nil, errors.NewInvalidCIKError(cik)
	}

	key := edgar.Key("submissions", cik10)
	var cached edgar.Submissions
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	subs, err := s.client.Submissions(ctx, cik10)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, subs, s.ttl.Submissions)
	return subs, nil
}

// Facts fetches a company's XBRL companyfacts payload through the
// cache. The payload stays raw bytes for gjson traversal.
func (s *Service) Facts(ctx context.Context, cik string) ([]byte, error) {
	cik10, err := validation.NormalizeCIK(cik)
	if err != nil {
		return nil, errors.NewInvalidCIKError(cik)
	}

	key := edgar.Key("facts", cik10)
	if raw, ok := s.cache.GetBytes(ctx, key); ok {
		return raw, nil
	}

	raw, err := s.client.CompanyFacts(ctx, cik10)
	if err != nil {
		return nil, err
	}
	s.cache.SetBytes(ctx, key, raw, s.ttl.Facts)
	return raw, nil
}

// Filing selects one filing from a company's history. A non-empty
// accession pins the exact filing; otherwise the latest filing of
// formType wins. Submissions list filings newest first.
func (s *Service) Filing(ctx context.Context, cik, accession, formType string) (edgar.Filing, error) {
	subs, err := s.Submissions(ctx, cik)
	if err != nil {
		return edgar.Filing{}, err
	}

	if accession != "" {
		accDashed, err := validation.NormalizeAccession(accession)
		if err != nil {
			return edgar.Filing{}, errors.NewInvalidAccessionError(accession)
		}
		for _, f := range subs.Rows() {
			if f.AccessionNumber == accDashed {
				return f, nil
			}
		}
		return edgar.Filing{}, errors.NewAccessionNotFoundError(accDashed)
	}

	rows := subs.FilingsByForm(formType)
	if len(rows) == 0 {
		return edgar.Filing{}, errors.NewFilingNotFoundError(formType)
	}
	return rows[0], nil
}

// DocumentText downloads a filing's primary document and renders it to
// normalized plain text.
func (s *Service) DocumentText(ctx context.Context, f edgar.Filing) (string, error) {
	raw, err := s.client.PrimaryDocument(ctx, f)
	if err != nil {
		return "", err
	}
	return htmltext.Extract(string(raw)), nil
}

// SectionText returns the named section of a filing, reading through
// the section store so repeat extractions skip the document download.
// A filing that simply lacks the section returns "" without error.
func (s *Service) SectionText(ctx context.Context, f edgar.Filing, sectionID string) (string, error) {
	cik := validation.TrimCIK(f.CIK)

	if rec, ok := s.sections.Get(ctx, cik, f.AccessionNumber, sectionID); ok {
		return rec.Content, nil
	}

	def, ok := s.registry.SectionFor(f.Form, sectionID)
	if !ok {
		return "", errors.NewFormNotSupportedError(f.Form)
	}

	text, err := s.DocumentText(ctx, f)
	if err != nil {
		return "", err
	}

	start := time.Now()
	section, found := sections.Extract(text, def)
	metrics.SectionExtractionDuration.WithLabelValues(sectionID).Observe(time.Since(start).Seconds())

	if !found {
		s.logger.Info("section not found in filing", map[string]interface{}{
			"cik":       cik,
			"accession": f.AccessionNumber,
			"section":   sectionID,
			"form":      f.Form,
		})
		return "", nil
	}

	rec := &store.SectionRecord{
		CIK:             cik,
		AccessionNumber: f.AccessionNumber,
		Section:         sectionID,
		Content:         section,
	}
	s.sections.Put(ctx, rec)
	s.index.Index(ctx, rec)

	return section, nil
}

// SearchSections consults the section index for content matches scoped
// to one company. ErrIndexDisabled means callers must scan documents.
func (s *Service) SearchSections(ctx context.Context, cik, phrase string, size int) ([]store.SectionHit, error) {
	return s.index.Search(ctx, validation.TrimCIK(cik), phrase, size)
}

// Source formats the source attribution of an extraction response.
func Source(f edgar.Filing) string {
	return f.Form + " - " + f.FilingDate
}

// CompanyNameFallback backfills a display name when submissions carry
// none, which happens for some older registrants.
func CompanyNameFallback(name, cik string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return "CIK " + validation.TrimCIK(cik)
}
