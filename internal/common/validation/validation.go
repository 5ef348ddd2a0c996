package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	cikPattern       = regexp.MustCompile(`^\d{1,10}$`)
	accessionDashed  = regexp.MustCompile(`^\d{10}-\d{2}-\d{6}$`)
	accessionCompact = regexp.MustCompile(`^\d{18}$`)
	tickerPattern    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.\-]{0,9}$`)
)

// NormalizeCIK validates a CIK and returns it zero-padded to ten digits,
// the form data.sec.gov endpoints expect.
func NormalizeCIK(raw string) (string, error) {
	cik := strings.TrimSpace(raw)
	if cik == "" {
		return "", fmt.Errorf("cik is empty")
	}
	if !cikPattern.MatchString(cik) {
		return "", fmt.Errorf("cik must be 1 to 10 digits, got %q", raw)
	}
	return strings.Repeat("0", 10-len(cik)) + cik, nil
}

// TrimCIK strips leading zeros from a CIK. Archive paths on www.sec.gov
// use the unpadded form.
func TrimCIK(cik string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(cik), "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// NormalizeAccession validates an accession number and returns the dashed
// canonical form 0000320193-24-000123. Both dashed and 18-digit compact
// inputs are accepted.
func NormalizeAccession(raw string) (string, error) {
	acc := strings.TrimSpace(raw)
	if accessionDashed.MatchString(acc) {
		return acc, nil
	}
	if accessionCompact.MatchString(acc) {
		return acc[:10] + "-" + acc[10:12] + "-" + acc[12:], nil
	}
	return "", fmt.Errorf("invalid accession number %q", raw)
}

// AccessionNoDashes returns the compact accession form used in archive
// directory names.
func AccessionNoDashes(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return nil
}

// NormalizeFormType uppercases and trims a form type so "10-k " matches
// filings reported as "10-K".
func NormalizeFormType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// LooksLikeTicker reports whether a query string is plausibly a ticker
// symbol rather than a company name.
func LooksLikeTicker(s string) bool {
	return tickerPattern.MatchString(strings.TrimSpace(s))
}

// ClampLimit bounds a requested result count. Non-positive values fall
// back to def.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
