// Package sections slices named sections (business, risk factors, MD&A)
// out of plain filing text using the marker tables from the form registry.
package sections

import (
	"regexp"
	"sort"
	"strings"

	"edgar-content-service/pkg/forms"
)

// A body section shorter than this is assumed to be a table-of-contents
// hit rather than real section content.
const minSectionChars = 200

// Markers are followed by a run of punctuation and spacing before the
// section content starts ("Item 1.  Business", "ITEM 1A - RISK FACTORS").
var markerTailPattern = regexp.MustCompile(`^[.\s\-]*`)

// Extract locates the section of text described by def. Markers match
// case-insensitively. Filings list every item in a table of contents
// before the body, so occurrences of a start marker are tried from the
// last backwards, accepting the first slice that ends at an end marker
// and is long enough to be real content. When no occurrence qualifies,
// the first occurrence is used as-is.
func Extract(text string, def *forms.SectionDefinition) (string, bool) {
	if def == nil || text == "" {
		return "", false
	}
	lower := strings.ToLower(text)

	type hit struct {
		idx       int
		markerLen int
	}
	var hits []hit
	for _, marker := range def.StartMarkers {
		m := strings.ToLower(marker)
		for _, idx := range occurrences(lower, m) {
			hits = append(hits, hit{idx: idx, markerLen: len(m)})
		}
	}
	if len(hits) == 0 {
		return "", false
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].idx < hits[j].idx })

	type candidate struct {
		begin    int
		end      int
		endFound bool
	}
	candidates := make([]candidate, 0, len(hits))
	for _, h := range hits {
		begin := h.idx + h.markerLen
		begin += len(markerTailPattern.FindString(lower[begin:]))

		end := len(text)
		endFound := false
		for _, em := range def.EndMarkers {
			if j := strings.Index(lower[begin:], strings.ToLower(em)); j >= 0 && begin+j < end {
				end = begin + j
				endFound = true
			}
		}
		candidates = append(candidates, candidate{begin: begin, end: end, endFound: endFound})
	}

	// Pass 1: latest occurrence that is bounded by an end marker.
	// Pass 2: latest occurrence that at least looks like a real section.
	for _, requireEnd := range []bool{true, false} {
		for i := len(candidates) - 1; i >= 0; i-- {
			c := candidates[i]
			if requireEnd && !c.endFound {
				continue
			}
			if section := strings.TrimSpace(text[c.begin:c.end]); len(section) >= minSectionChars {
				return section, true
			}
		}
	}

	first := candidates[0]
	section := strings.TrimSpace(text[first.begin:first.end])
	return section, section != ""
}

// occurrences returns every index of sub in s in ascending order.
func occurrences(s, sub string) []int {
	if sub == "" {
		return nil
	}
	var idxs []int
	for from := 0; ; {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return idxs
		}
		idxs = append(idxs, from+i)
		from += i + len(sub)
	}
}
