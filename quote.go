package sexp

import "strings"

// quoteChars are the bytes that force a token into quotes. The first seven
// are the separators and reserved bytes of the KiCad string rules; the quote
// and line breaks cannot appear in a bare token at all.
const quoteChars = " ()\t{}%\"\r\n"

// NeedsQuote reports whether s must be quoted to survive a round trip.
func NeedsQuote(s string) bool {
	return s == "" || strings.ContainsAny(s, quoteChars)
}

// Quote returns the canonical rendering of the token s: bare when possible,
// otherwise wrapped in double quotes with embedded quotes escaped.
func Quote(s string) string {
	if !NeedsQuote(s) {
		return s
	}
	return quoteAlways(s)
}

func quoteAlways(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	sb.WriteByte('"')
	return sb.String()
}
