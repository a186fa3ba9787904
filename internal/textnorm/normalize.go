// Package textnorm canonicalizes recognized text so that OCR output and known
// label spellings can be compared without tripping over diacritic and width noise.
//
// Tesseract regularly confuses the voicing marks of katakana rendered in small
// game fonts (ガ read as カ, ッ read as ツ), so both sides of every comparison are
// folded onto their unvoiced, full-size base forms before matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// voiced maps voiced and semi-voiced katakana to their unvoiced base.
var voiced = map[rune]rune{
	'ガ': 'カ', 'ギ': 'キ', 'グ': 'ク', 'ゲ': 'ケ', 'ゴ': 'コ',
	'ザ': 'サ', 'ジ': 'シ', 'ズ': 'ス', 'ゼ': 'セ', 'ゾ': 'ソ',
	'ダ': 'タ', 'ヂ': 'チ', 'ヅ': 'ツ', 'デ': 'テ', 'ド': 'ト',
	'バ': 'ハ', 'ビ': 'ヒ', 'ブ': 'フ', 'ベ': 'ヘ', 'ボ': 'ホ',
	'パ': 'ハ', 'ピ': 'ヒ', 'プ': 'フ', 'ペ': 'ヘ', 'ポ': 'ホ',
	'ヴ': 'ウ',
}

// small maps small-form katakana to their full-size counterpart.
var small = map[rune]rune{
	'ァ': 'ア', 'ィ': 'イ', 'ゥ': 'ウ', 'ェ': 'エ', 'ォ': 'オ',
	'ッ': 'ツ', 'ャ': 'ヤ', 'ュ': 'ユ', 'ョ': 'ヨ',
}

// dropped holds runes removed outright: the long-vowel mark, hyphen variants,
// detached voicing marks, and 一 which the recognizer returns in place of ー.
var dropped = map[rune]bool{
	'ー': true, 'ｰ': true, '-': true, '‐': true, '－': true, '―': true, '一': true,
	'\u3099': true, '\u309a': true, '\u309b': true, '\u309c': true,
}

// Normalize returns the canonical comparison form of s.
//
// Width variants are folded first (full-width ASCII becomes half-width,
// half-width katakana becomes full-width), then whitespace and the runes in
// dropped are removed and the voiced/small tables are applied. The result is
// stable: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || dropped[r] {
			continue
		}
		if base, ok := voiced[r]; ok {
			r = base
		} else if full, ok := small[r]; ok {
			r = full
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeAll applies Normalize to every element and drops entries that
// normalize to the empty string.
func NormalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}
