package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgar-content-service/internal/common/database"
	"edgar-content-service/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func newMockStore(t *testing.T) (*SectionStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	client := &database.PostgresClient{DB: db}
	return NewSectionStore(client, logger.NewTestLogger(t)), mock
}

func sampleRecord() *SectionRecord {
	return &SectionRecord{
		CIK:             "0000320193",
		AccessionNumber: "0000320193-23-000106",
		Section:         "business",
		Content:         "The Company designs, manufactures and markets smartphones.",
	}
}

// ==========================
// SectionStore Tests
// ==========================

func TestSectionStoreGetHit(t *testing.T) {
	store, mock := newMockStore(t)

	extractedAt := time.Date(2023, 11, 3, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"content_hash", "content", "char_count", "extracted_at"}).
		AddRow("a1b2c3d4e5f60718", "Stored section text.", 20, extractedAt)
	mock.ExpectQuery(`SELECT content_hash, content, char_count, extracted_at FROM filing_sections WHERE cik = \$1 AND accession_number = \$2 AND section = \$3`).
		WithArgs("0000320193", "0000320193-23-000106", "business").
		WillReturnRows(rows)

	rec, ok := store.Get(context.Background(), "0000320193", "0000320193-23-000106", "business")

	require.True(t, ok)
	assert.Equal(t, "0000320193", rec.CIK)
	assert.Equal(t, "0000320193-23-000106", rec.AccessionNumber)
	assert.Equal(t, "business", rec.Section)
	assert.Equal(t, "a1b2c3d4e5f60718", rec.ContentHash)
	assert.Equal(t, "Stored section text.", rec.Content)
	assert.Equal(t, 20, rec.CharCount)
	assert.Equal(t, extractedAt, rec.ExtractedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionStoreGetMiss(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT content_hash, content, char_count, extracted_at FROM filing_sections`).
		WithArgs("0000320193", "0000320193-23-000106", "mda").
		WillReturnError(sql.ErrNoRows)

	rec, ok := store.Get(context.Background(), "0000320193", "0000320193-23-000106", "mda")

	assert.False(t, ok)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionStoreGetFailureDegradesToMiss(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT content_hash, content, char_count, extracted_at FROM filing_sections`).
		WithArgs("0000320193", "0000320193-23-000106", "business").
		WillReturnError(stderrors.New("connection reset by peer"))

	rec, ok := store.Get(context.Background(), "0000320193", "0000320193-23-000106", "business")

	assert.False(t, ok)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionStorePutFillsDerivedFields(t *testing.T) {
	store, mock := newMockStore(t)
	rec := sampleRecord()

	mock.ExpectExec(`INSERT INTO filing_sections`).
		WithArgs(rec.CIK, rec.AccessionNumber, rec.Section,
			ContentHash(rec.Content), rec.Content, len(rec.Content), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store.Put(context.Background(), rec)

	assert.Equal(t, ContentHash(rec.Content), rec.ContentHash)
	assert.Equal(t, len(rec.Content), rec.CharCount)
	assert.False(t, rec.ExtractedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionStorePutSwallowsFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO filing_sections`).
		WillReturnError(stderrors.New("deadlock detected"))

	store.Put(context.Background(), sampleRecord())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionStoreEnsureSchema(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS filing_sections`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionStoreEnsureSchemaFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS filing_sections`).
		WillReturnError(stderrors.New("permission denied"))

	err := store.EnsureSchema(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "filing_sections")
}

func TestSectionStoreDisabled(t *testing.T) {
	store := NewSectionStore(nil, logger.NewTestLogger(t))

	assert.False(t, store.Enabled())
	assert.NoError(t, store.EnsureSchema(context.Background()))

	rec, ok := store.Get(context.Background(), "0000320193", "0000320193-23-000106", "business")
	assert.False(t, ok)
	assert.Nil(t, rec)

	store.Put(context.Background(), sampleRecord())
}

func TestContentHash(t *testing.T) {
	first := ContentHash("The Company designs, manufactures and markets smartphones.")
	second := ContentHash("The Company designs, manufactures and markets smartphones.")
	other := ContentHash("Risk factors include supply chain concentration.")

	assert.Len(t, first, 16)
	assert.Regexp(t, `^[0-9a-f]{16}$`, first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Len(t, ContentHash(""), 16)
}
