package chatlog

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// literalEscapeRe finds backslash escape sequences that were exported as
// literal text instead of being decoded (e.g. `café`).
var literalEscapeRe = regexp.MustCompile(`\\u[0-9a-fA-F]{4}|\\x[0-9a-fA-F]{2}`)

// ReadFile reads a chat export file. A missing or unreadable file is a
// distinct failure from an empty file, which returns "" with no error.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read chat export: %w", err)
	}
	return string(data), nil
}

// Normalize canonicalizes raw export text. It is idempotent: applying it to
// already-canonical text returns the text unchanged.
//
// Three repairs run in sequence: literal escape sequences are decoded,
// mojibake from an upstream Latin-1/UTF-8 mix-up is re-decoded, and the
// result is NFKC-normalized so visually identical glyphs compare equal.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = decodeLiteralEscapes(s)
	s = repairDoubleEncoding(s)
	return norm.NFKC.String(s)
}

// decodeLiteralEscapes replaces literal \uXXXX and \xXX sequences with the
// runes they denote. Anything UnquoteChar rejects is left as-is.
func decodeLiteralEscapes(s string) string {
	if !strings.Contains(s, `\u`) && !strings.Contains(s, `\x`) {
		return s
	}
	return literalEscapeRe.ReplaceAllStringFunc(s, func(esc string) string {
		r, _, _, err := strconv.UnquoteChar(esc, 0)
		if err != nil {
			return esc
		}
		return string(r)
	})
}

// repairDoubleEncoding recovers text that was decoded as Latin-1 when the
// underlying bytes were UTF-8 ("Ã©" -> "é"). The text is re-encoded to its
// original bytes and only re-decoded if those bytes form valid UTF-8, so
// clean text passes through untouched.
func repairDoubleEncoding(s string) string {
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	if err != nil {
		// Contains runes outside Latin-1, so it cannot be mojibake.
		return s
	}
	if !utf8.Valid(b) || string(b) == s {
		return s
	}
	return string(b)
}
