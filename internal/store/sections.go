// Package store persists extracted filing sections. Postgres is the
// system of record, Elasticsearch the content index; both are optional
// at runtime and every method degrades to a no-op or miss when the
// backing service is absent.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"

	"edgar-content-service/internal/common/database"
	"edgar-content-service/internal/common/logger"
)

// SectionRecord is one extracted section of one filing.
type SectionRecord struct {
	CIK             string    `json:"cik"`
	AccessionNumber string    `json:"accession_number"`
	Section         string    `json:"section"`
	ContentHash     string    `json:"content_hash"`
	Content         string    `json:"content"`
	CharCount       int       `json:"char_count"`
	ExtractedAt     time.Time `json:"extracted_at"`
}

const createSectionsSchema = `
	CREATE TABLE IF NOT EXISTS filing_sections (
		cik VARCHAR(10) NOT NULL,
		accession_number VARCHAR(25) NOT NULL,
		section VARCHAR(40) NOT NULL,
		content_hash VARCHAR(16) NOT NULL,
		content TEXT NOT NULL,
		char_count INTEGER NOT NULL,
		extracted_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (cik, accession_number, section)
	);
	CREATE INDEX IF NOT EXISTS idx_filing_sections_cik ON filing_sections(cik);
	CREATE INDEX IF NOT EXISTS idx_filing_sections_hash ON filing_sections(content_hash);
`

const upsertSectionQuery = `
	INSERT INTO filing_sections (cik, accession_number, section, content_hash, content, char_count, extracted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (cik, accession_number, section) DO UPDATE SET
		content_hash = EXCLUDED.content_hash,
		content = EXCLUDED.content,
		char_count = EXCLUDED.char_count,
		extracted_at = EXCLUDED.extracted_at
`

const selectSectionQuery = `
	SELECT content_hash, content, char_count, extracted_at
	FROM filing_sections
	WHERE cik = $1 AND accession_number = $2 AND section = $3
`

// SectionStore reads and writes filing_sections rows so repeat
// extractions skip the document download.
type SectionStore struct {
	db  *database.PostgresClient
	log logger.Logger
}

// NewSectionStore wraps a Postgres client; db may be nil when the
// database is not configured.
func NewSectionStore(db *database.PostgresClient, log logger.Logger) *SectionStore {
	return &SectionStore{db: db, log: log}
}

// Enabled reports whether a database backs the store.
func (s *SectionStore) Enabled() bool {
	return s != nil && s.db != nil
}

// EnsureSchema creates the filing_sections table and its indexes.
func (s *SectionStore) EnsureSchema(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	if _, err := s.db.Exec(ctx, createSectionsSchema); err != nil {
		return fmt.Errorf("create filing_sections schema: %w", err)
	}
	return nil
}

// Get returns the stored section, or a miss when absent or the store
// is unavailable. Store failures never fail the caller's request.
func (s *SectionStore) Get(ctx context.Context, cik, accession, section string) (*SectionRecord, bool) {
	if !s.Enabled() {
		return nil, false
	}

	rec := &SectionRecord{CIK: cik, AccessionNumber: accession, Section: section}
	err := s.db.QueryRow(ctx, selectSectionQuery, cik, accession, section).Scan(
		&rec.ContentHash, &rec.Content, &rec.CharCount, &rec.ExtractedAt,
	)
	switch {
	case err == sql.ErrNoRows:
		return nil, false
	case err != nil:
		s.log.Warn("section store read failed", map[string]interface{}{
			"cik":       cik,
			"accession": accession,
			"section":   section,
			"error":     err.Error(),
		})
		return nil, false
	}
	return rec, true
}

// Put upserts a section row, filling the content hash, char count and
// extraction time when unset. Failures are logged and swallowed.
func (s *SectionStore) Put(ctx context.Context, rec *SectionRecord) {
	if !s.Enabled() || rec == nil {
		return
	}
	if rec.ContentHash == "" {
		rec.ContentHash = ContentHash(rec.Content)
	}
	if rec.CharCount == 0 {
		rec.CharCount = len(rec.Content)
	}
	if rec.ExtractedAt.IsZero() {
		rec.ExtractedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, upsertSectionQuery,
		rec.CIK, rec.AccessionNumber, rec.Section,
		rec.ContentHash, rec.Content, rec.CharCount, rec.ExtractedAt,
	)
	if err != nil {
		s.log.Warn("section store write failed", map[string]interface{}{
			"cik":       rec.CIK,
			"accession": rec.AccessionNumber,
			"section":   rec.Section,
			"error":     err.Error(),
		})
	}
}

// ContentHash fingerprints section text for idempotent upserts.
func ContentHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}
