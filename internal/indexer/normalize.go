package indexer

import (
	"regexp"
	"strings"
)

var (
	newlineRuns = regexp.MustCompile(`\n+`)
	spaceRuns   = regexp.MustCompile(` +`)
)

// Normalize collapses runs of newlines and runs of spaces to a single character and trims the result.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = newlineRuns.ReplaceAllString(text, "\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
