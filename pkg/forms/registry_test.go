package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRegistry = `{
  "version": "1.0.0",
  "lastUpdated": "2025-01-01",
  "forms": [
    {
      "type": "10-K",
      "displayName": "Annual Report",
      "category": "annual",
      "aliases": ["10-K/A"],
      "sections": [
        {"id": "business", "title": "Business", "startMarkers": ["item 1."], "endMarkers": ["item 1a"]},
        {"id": "risk_factors", "title": "Risk Factors", "startMarkers": ["item 1a"], "endMarkers": ["item 1b"]}
      ]
    },
    {
      "type": "8-K",
      "displayName": "Current Report",
      "category": "current",
      "sections": []
    }
  ]
}`

func TestParseRegistry(t *testing.T) {
	reg, err := ParseRegistry([]byte(testRegistry))
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", reg.Version)
	assert.Len(t, reg.Forms, 2)
}

func TestParseRegistryRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "missing forms", json: `{"version": "1.0.0"}`},
		{name: "empty forms", json: `{"version": "1.0.0", "forms": []}`},
		{name: "form without category", json: `{"version": "1.0.0", "forms": [{"type": "10-K", "displayName": "x"}]}`},
		{name: "bad category", json: `{"version": "1.0.0", "forms": [{"type": "10-K", "displayName": "x", "category": "weekly"}]}`},
		{name: "section without markers", json: `{"version": "1.0.0", "forms": [{"type": "10-K", "displayName": "x", "category": "annual", "sections": [{"id": "business", "title": "Business", "startMarkers": [], "endMarkers": []}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRegistry([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestFormLookup(t *testing.T) {
	reg, err := ParseRegistry([]byte(testRegistry))
	require.NoError(t, err)

	f, ok := reg.Form("10-K")
	require.True(t, ok)
	assert.Equal(t, "Annual Report", f.DisplayName)

	// case-insensitive
	_, ok = reg.Form("10-k")
	assert.True(t, ok)

	// alias resolves to the parent form
	f, ok = reg.Form("10-K/A")
	require.True(t, ok)
	assert.Equal(t, "10-K", f.Type)

	_, ok = reg.Form("13F-HR")
	assert.False(t, ok)
}

func TestSectionLookup(t *testing.T) {
	reg, err := ParseRegistry([]byte(testRegistry))
	require.NoError(t, err)

	f, _ := reg.Form("10-K")
	s, ok := f.Section("risk_factors")
	require.True(t, ok)
	assert.Equal(t, []string{"item 1a"}, s.StartMarkers)

	_, ok = f.Section("mda")
	assert.False(t, ok)
}

func TestSectionForFallsBackToAnnualLayout(t *testing.T) {
	reg, err := ParseRegistry([]byte(testRegistry))
	require.NoError(t, err)

	// 8-K defines no sections; the annual-report layout is the fallback.
	s, ok := reg.SectionFor("8-K", "business")
	require.True(t, ok)
	assert.Equal(t, "business", s.ID)

	// unknown forms fall back as well
	s, ok = reg.SectionFor("13F-HR", "risk_factors")
	require.True(t, ok)
	assert.Equal(t, "risk_factors", s.ID)
}

func TestLoadRegistryFromRepoConfig(t *testing.T) {
	reg, err := LoadRegistry("../../configs/form-registry.json")
	require.NoError(t, err)

	assert.True(t, reg.Supports("10-K"))
	assert.True(t, reg.Supports("10-Q"))
	assert.True(t, reg.Supports("4"))

	f, ok := reg.Form("10-K")
	require.True(t, ok)
	for _, id := range []string{"business", "risk_factors", "mda"} {
		_, ok := f.Section(id)
		assert.True(t, ok, "10-K should define section %s", id)
	}
}
