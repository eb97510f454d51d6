// Package html locates and walks HTML tables. Parsing is delegated to
// golang.org/x/net/html; this package adds the small amount of navigation and
// text cleanup the extractor needs:
//
//   - Parse: build a document tree from a reader.
//   - FirstTable: the first <table> in document order.
//   - BodyRows: the <td> cells of each row in the table's first <tbody>.
//   - CellText / CleanText: the visible text of a cell, trimmed and normalized.
//   - RemoveChars: drop a set of characters (thousands separators, symbols).
package html

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanText trims surrounding whitespace (including NBSP), drops invisible
// format characters such as U+200E LEFT-TO-RIGHT MARK, and returns the NFC
// form so equal-looking names compare equal.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	t := transform.Chain(
		runes.Remove(runes.In(unicode.Cf)),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}

// RemoveChars returns s with every rune in chars removed.
func RemoveChars(s, chars string) string {
	if s == "" || chars == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}
