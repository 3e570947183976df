package orchestrator

import (
	"regexp"
	"strings"
)

var (
	fencePattern      = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\n?(.*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`]*)`")
	imagePattern      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkPattern       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headingPattern    = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	quotePattern      = regexp.MustCompile(`(?m)^\s*>\s?`)
	bulletPattern     = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedPattern   = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	rulePattern       = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	tableRulePattern  = regexp.MustCompile(`(?m)^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`)
	boldPattern       = regexp.MustCompile(`\*\*([^*\n]+)\*\*|__([^_\n]+)__`)
	italicPattern     = regexp.MustCompile(`\*([^*\n]+)\*`)
	underscorePattern = regexp.MustCompile(`(^|[^\w])_([^_\n]+)_([^\w]|$)`)
	strikePattern     = regexp.MustCompile(`~~([^~\n]+)~~`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
	spacesPattern     = regexp.MustCompile(`[ \t]{2,}`)
)

// CleanForSpeech strips markdown so a response reads naturally aloud.
func CleanForSpeech(text string) string {
	s := fencePattern.ReplaceAllString(text, "$1")
	s = imagePattern.ReplaceAllString(s, "$1")
	s = linkPattern.ReplaceAllString(s, "$1")
	s = inlineCodePattern.ReplaceAllString(s, "$1")
	s = tableRulePattern.ReplaceAllString(s, "")
	s = rulePattern.ReplaceAllString(s, "")
	s = headingPattern.ReplaceAllString(s, "")
	s = quotePattern.ReplaceAllString(s, "")
	s = bulletPattern.ReplaceAllString(s, "")
	s = numberedPattern.ReplaceAllString(s, "")
	s = boldPattern.ReplaceAllString(s, "$1$2")
	s = italicPattern.ReplaceAllString(s, "$1")
	s = underscorePattern.ReplaceAllString(s, "$1$2$3")
	s = strikePattern.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "|", " ")
	s = spacesPattern.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	s = strings.Join(lines, "\n")
	s = blankLinesPattern.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
