package usecase

import (
	"strings"
	"unicode"
)

// defaultKeywordMinLength is the minimum token length (in runes) kept by
// ExtractKeywords.
const defaultKeywordMinLength = 3

// stopWords contains generic e-commerce filler that carries no signal when
// comparing product titles across markets.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"pack": true, "set": true, "size": true,
	"inch": true, "inches": true, "new": true, "best": true, "sale": true,
	"free": true, "shipping": true,
	"amazon": true, "brand": true, "basics": true,
	"color": true, "black": true, "white": true, "gray": true, "grey": true,
	"blue": true, "red": true, "green": true, "pink": true, "yellow": true,
	"purple": true,
	"small": true, "medium": true, "large": true,
	"count": true, "piece": true, "pieces": true,
}

// Normalize lowercases text, replaces every character that is neither
// alphanumeric nor whitespace with a space, collapses runs of whitespace
// and trims the ends. Unicode letters and digits survive, so Japanese and
// other non-Latin titles keep their characters. Idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// ExtractKeywords splits a normalized product name into a token set,
// discarding tokens shorter than minLength runes and stop words. Duplicates
// collapse; order is irrelevant.
func ExtractKeywords(name string, minLength int) map[string]bool {
	if minLength <= 0 {
		minLength = defaultKeywordMinLength
	}

	keywords := make(map[string]bool)
	for _, word := range strings.Fields(Normalize(name)) {
		if len([]rune(word)) < minLength {
			continue
		}
		if stopWords[word] {
			continue
		}
		keywords[word] = true
	}
	return keywords
}

// hasNonASCII reports whether a name contains characters outside the ASCII
// range, signaling a likely non-English title.
func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}
