// Package textutil holds small pure helpers for shaping generated text.
package textutil

import (
	"strings"
	"unicode"
)

// Truncate limits text to maxLength characters (runes) without ending on a
// partial word.
//
// Text that already fits is returned unchanged. Otherwise the text is cut at
// maxLength runes and, unless the cut falls exactly on a word boundary, the
// trailing partial word is dropped back to the last whitespace in the prefix.
// When the prefix holds no whitespace at all it is returned as a hard cut of
// exactly maxLength runes. Trailing whitespace is never returned for
// truncated text.
func Truncate(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}

	prefix := runes[:maxLength]

	// The cut already sits on a word boundary.
	if unicode.IsSpace(runes[maxLength]) {
		return strings.TrimRightFunc(string(prefix), unicode.IsSpace)
	}

	cut := lastSpace(prefix)
	if cut < 0 {
		return string(prefix)
	}

	return strings.TrimRightFunc(string(prefix[:cut]), unicode.IsSpace)
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}
