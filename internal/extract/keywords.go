package extract

import (
	"strings"
	"unicode"
)

const (
	// PrefixWindow is the number of leading runes of a line searched for
	// keyword characters. Labels sit at the start of a row in the card layout.
	PrefixWindow = 20

	// MinKeywordHits is the number of distinct keyword characters a prefix must
	// contain before the line counts as a label row. One hit is noise.
	MinKeywordHits = 2
)

// ByKeywords returns the value that follows a keyword label in raw.
//
// Each line is examined in order. A line qualifies when its first PrefixWindow
// runes contain at least MinKeywordHits distinct runes of keywordChars. The
// value is everything after the rightmost keyword rune in that window, with
// leading separators (spaces, middle dots, hyphens, ellipses and closing
// brackets) stripped. The first qualifying line wins; "" means no line
// qualified.
//
// Example:
//
//	ByKeywords("Lv.1\n国籍/地域 ・ ブラジル\n", "国籍地域") // "ブラジル"
func ByKeywords(raw, keywordChars string) string {
	keys := make(map[rune]struct{}, len(keywordChars))
	for _, r := range keywordChars {
		keys[r] = struct{}{}
	}
	if len(keys) < MinKeywordHits {
		return ""
	}

	for _, line := range SplitLines(raw) {
		runes := []rune(line)
		window := runes
		if len(window) > PrefixWindow {
			window = window[:PrefixWindow]
		}

		seen := make(map[rune]struct{}, MinKeywordHits)
		last := -1
		for i, r := range window {
			if _, ok := keys[r]; ok {
				seen[r] = struct{}{}
				last = i
			}
		}
		if len(seen) < MinKeywordHits {
			continue
		}

		value := strings.TrimLeftFunc(string(runes[last+1:]), isSeparator)
		return strings.TrimRightFunc(value, unicode.IsSpace)
	}
	return ""
}

// SplitLines splits recognized text on any newline convention.
func SplitLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	return strings.Split(raw, "\n")
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '　',
		'・', '･', '·',
		'-',
		'…',
		')', '）', ']', '］', '】', '」', '』':
		return true
	}
	return false
}
