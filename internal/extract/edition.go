package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// DefaultEditions lists the card edition labels printed on the card header.
var DefaultEditions = []string{"Big Time", "Epic", "Show Time", "Highlight", "POTW", "Club Selection"}

// EditionExtractor finds an edition/date string such as "Big Time 11 Jan '15"
// in recognized text and rewrites it to canonical spacing.
type EditionExtractor struct {
	re        *regexp.Regexp
	canonical map[string]string
}

// NewEditionExtractor compiles the edition pattern for the given labels.
//
// Words inside a label may be separated by any amount of whitespace (or none)
// in the recognized text, so "BigTime" and "Big  Time" both match "Big Time".
// The date part must be separated from the label by whitespace, which can
// include a line break inserted by the recognizer.
// The month is three ASCII letters in any case; case folding is switched off
// there so that letters such as U+212A KELVIN SIGN do not stand in for "k".
func NewEditionExtractor(labels []string) (*EditionExtractor, error) {
	if len(labels) == 0 {
		return nil, errors.New("no edition labels configured")
	}

	canonical := make(map[string]string, len(labels))
	alts := make([]string, 0, len(labels))
	for _, label := range labels {
		words := strings.Fields(label)
		if len(words) == 0 {
			return nil, fmt.Errorf("empty edition label %q", label)
		}
		quoted := make([]string, len(words))
		for i, w := range words {
			quoted[i] = regexp.QuoteMeta(w)
		}
		alts = append(alts, strings.Join(quoted, `\s*`))
		canonical[editionKey(label)] = strings.Join(words, " ")
	}

	pattern := `(?i)(` + strings.Join(alts, "|") + `)\s+(\d{1,2})\s+(?-i:([A-Za-z]{3}))\s*['’‘` + "`" + `]?\s*(\d{2})\b`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile edition pattern: %w", err)
	}

	return &EditionExtractor{re: re, canonical: canonical}, nil
}

// Extract returns the canonical edition string found in raw.
//
// The result has single spaces between fields, the configured spelling of the
// edition label, a title-cased month and an apostrophe directly before the
// two-digit year: "Big Time 11 Jan '15". ok is false when nothing matches;
// callers are expected to fall back to another extraction path.
func (e *EditionExtractor) Extract(raw string) (edition string, ok bool) {
	m := e.re.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}

	label, known := e.canonical[editionKey(m[1])]
	if !known {
		label = strings.Join(strings.Fields(m[1]), " ")
	}
	month := strings.ToUpper(m[3][:1]) + strings.ToLower(m[3][1:])

	return fmt.Sprintf("%s %s %s '%s", label, m[2], month, m[4]), true
}

// editionKey folds a label to lower case without whitespace.
func editionKey(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, label)
}
