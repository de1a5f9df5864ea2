package internal

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	pageExt               = ".htm"
	enhancedTranscriptExt = "-transcript.txt"
)

var whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r ]+`)

// NormalizeTitle turns a video title into a file base name: accents
// stripped, whitespace runs collapsed to underscores, lower-cased.
func NormalizeTitle(title string) string {
	// NFKD splits "é" into "e" plus a combining accent, which is then dropped
	// with every other non-ASCII rune.
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}
	return strings.ToLower(whitespaceRun.ReplaceAllString(folded, "_"))
}

// PageFilename is the help page name for a video title
func PageFilename(title string) string {
	return NormalizeTitle(title) + pageExt
}

// EnhancedTranscriptFilename is the stored enhanced transcript name for a video title
func EnhancedTranscriptFilename(title string) string {
	return NormalizeTitle(title) + enhancedTranscriptExt
}
