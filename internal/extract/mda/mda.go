// Package mda distills Management's Discussion and Analysis text into
// headline sentences about financial movement and performance.
package mda

import (
	"regexp"
	"strings"
)

var sentenceSplitPattern = regexp.MustCompile(`[.!?]+`)

// Movement and performance terms that mark a sentence as a highlight.
var highlightKeywords = []string{
	"increased", "decreased", "grew", "declined", "improved", "deteriorated",
	"revenue", "profit", "margin", "growth", "performance",
}

const (
	maxHighlights    = 5
	scanSentences    = 100
	minSentenceChars = 50
)

// Highlights picks up to five keyword sentences from the first hundred
// sentences of MD&A text.
func Highlights(text string) []string {
	sentences := sentenceSplitPattern.Split(text, -1)
	if len(sentences) > scanSentences {
		sentences = sentences[:scanSentences]
	}

	highlights := make([]string, 0, maxHighlights)
	for _, sentence := range sentences {
		if len(sentence) <= minSentenceChars {
			continue
		}
		lower := strings.ToLower(sentence)
		for _, kw := range highlightKeywords {
			if strings.Contains(lower, kw) {
				highlights = append(highlights, strings.TrimSpace(sentence))
				break
			}
		}
		if len(highlights) >= maxHighlights {
			break
		}
	}
	return highlights
}
