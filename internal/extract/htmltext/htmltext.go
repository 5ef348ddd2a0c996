// Package htmltext converts SEC filing documents from HTML into
// normalized plain text suitable for marker search and pattern matching.
package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// EDGAR filings nest tables aggressively; the cap only guards against
// pathological inputs.
const maxDepth = 120

var (
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]{2,}`)

	// Filings lean on &nbsp; runs for layout and soft hyphens for
	// line breaking; both would break marker matching if kept.
	specialRunes = strings.NewReplacer(
		" ", " ",
		"​", "",
		"­", "",
		"\r", "",
	)

	htmlTagPattern = regexp.MustCompile(`(?i)<(?:!doctype|html|head|body|div|p|table|span|font|br)[\s>/]`)
)

// blockTags produce line breaks around their content so paragraph and
// table-row boundaries survive into the text output.
var blockTags = map[string]bool{
	"p": true, "div": true, "table": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "section": true, "article": true,
	"blockquote": true, "hr": true, "center": true,
}

// skipTags carry no visible filing content. ix:header is the hidden
// inline-XBRL metadata block present in modern EDGAR documents.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
	"iframe": true, "svg": true, "head": true, "title": true,
	"ix:header": true,
}

// LooksLikeHTML reports whether content appears to be an HTML document
// rather than a plain-text filing.
func LooksLikeHTML(content string) bool {
	head := content
	if len(head) > 2048 {
		head = head[:2048]
	}
	return htmlTagPattern.MatchString(head)
}

// Extract converts an HTML document into normalized plain text. List
// items keep a bullet prefix so downstream bullet patterns still match.
// Plain-text input passes through with the same whitespace
// normalization applied.
func Extract(content string) string {
	if !LooksLikeHTML(content) {
		return Normalize(content)
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return Normalize(content)
	}
	var sb strings.Builder
	sb.Grow(len(content) / 2)
	walk(doc, &sb, 0)
	return Normalize(sb.String())
}

func walk(n *html.Node, sb *strings.Builder, depth int) {
	if depth > maxDepth {
		return
	}

	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteByte(' ')
		}
	case html.ElementNode:
		switch {
		case skipTags[n.Data]:
			return
		case n.Data == "br":
			sb.WriteByte('\n')
		case n.Data == "li":
			sb.WriteString("\n• ")
		case blockTags[n.Data]:
			sb.WriteByte('\n')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, sb, depth+1)
	}

	if n.Type == html.ElementNode && (blockTags[n.Data] || n.Data == "li") {
		sb.WriteByte('\n')
	}
}

// Normalize maps layout runes to plain spaces, collapses space runs and
// blank-line runs, and trims every line.
func Normalize(s string) string {
	s = specialRunes.Replace(s)
	s = multiSpacePattern.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")

	s = multiNewlinePattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
