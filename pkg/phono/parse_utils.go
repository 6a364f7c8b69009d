package phono

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// stripInlineCommentAndTrim removes leading/trailing whitespace and strips
// inline comments introduced by '#'. Lines that are empty or pure comments
// return the empty string.
func stripInlineCommentAndTrim(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	return line
}

// firstMeaningfulLine returns the first line of sniff that is neither
// blank nor a comment.
func firstMeaningfulLine(sniff []byte) string {
	for _, line := range strings.Split(string(sniff), "\n") {
		if l := stripInlineCommentAndTrim(line); l != "" {
			return l
		}
	}
	return ""
}

// NormalizeSymbol returns the canonical (NFC, trimmed) form of a symbol.
// Symbols are compared in this form everywhere.
func NormalizeSymbol(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
