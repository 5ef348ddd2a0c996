// Package riskfactors parses Item 1A section text into structured risk
// entries with a coarse category and severity grade.
package riskfactors

import (
	"regexp"
	"strings"
)

// RiskFactor is one parsed risk disclosure.
type RiskFactor struct {
	Risk     string `json:"risk"`
	Category string `json:"category"`
	Severity string `json:"severity"`
}

const (
	// Raw matches per pattern before length filtering.
	perPatternCap = 20
	// Shorter matches are headings or page artifacts, not risk prose.
	minRiskChars = 50
)

// Risk disclosures appear as bullet lines, numbered lines, or headline
// sentences naming a risk term.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\n\s*[•·\-\*]\s*([^\n]+)`),
	regexp.MustCompile(`\n\s*\d+\.\s*([^\n]+)`),
	regexp.MustCompile(`\n\s*([A-Z][^.!?]*(?:Risk|Uncertain|Threat|Challenge)[^.!?]*[.!?])`),
}

type category struct {
	name     string
	keywords []string
}

// Ordered; the first category with a keyword hit wins.
var categories = []category{
	{"Cybersecurity", []string{"cyber", "data breach", "security", "hack"}},
	{"Regulatory", []string{"regulation", "compliance", "legal", "law"}},
	{"Market", []string{"market", "competition", "demand", "customer"}},
	{"Financial", []string{"financial", "credit", "liquidity", "debt"}},
	{"Operational", []string{"operation", "supply", "manufacturing", "production"}},
	{"Technology", []string{"technology", "innovation", "obsolete", "intellectual property"}},
	{"Environmental", []string{"climate", "environmental", "sustainability", "carbon"}},
}

var (
	highSeverityPhrases   = []string{"material adverse", "significant harm", "substantial loss"}
	mediumSeverityPhrases = []string{"adverse", "negative", "impact"}
)

// Parse splits risk-factor section text into structured entries. Each
// pattern contributes at most perPatternCap raw matches and matches at
// or under minRiskChars are dropped, so the combined list can exceed
// the response cap; callers truncate it.
func Parse(text string) []RiskFactor {
	src := "\n" + text
	risks := make([]RiskFactor, 0, perPatternCap)

	for _, p := range patterns {
		matches := p.FindAllStringSubmatch(src, -1)
		if len(matches) > perPatternCap {
			matches = matches[:perPatternCap]
		}
		for _, m := range matches {
			if len(m[1]) <= minRiskChars {
				continue
			}
			risk := strings.TrimSpace(m[1])
			risks = append(risks, RiskFactor{
				Risk:     risk,
				Category: Categorize(risk),
				Severity: Severity(risk),
			})
		}
	}
	return risks
}

// Categorize assigns the first category whose keyword list hits the text,
// or General when none does.
func Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categories {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}
	return "General"
}

// Severity grades risk language: High for material-adverse phrasing,
// Medium for softer adverse terms, Low otherwise.
func Severity(text string) string {
	lower := strings.ToLower(text)
	for _, p := range highSeverityPhrases {
		if strings.Contains(lower, p) {
			return "High"
		}
	}
	for _, p := range mediumSeverityPhrases {
		if strings.Contains(lower, p) {
			return "Medium"
		}
	}
	return "Low"
}
