package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/cardscan/internal/extract"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks that the configuration can drive the pipeline. All problems
// are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Recognition.Timeout < 0 {
		errs = append(errs, invalid("recognition.timeout must not be negative"))
	}
	if strings.TrimSpace(c.Recognition.LatinLanguage) == "" {
		errs = append(errs, invalid("recognition.latin_language is empty"))
	}
	if strings.TrimSpace(c.Recognition.MixedLanguage) == "" {
		errs = append(errs, invalid("recognition.mixed_language is empty"))
	}
	if c.Recognition.PageSegMode < 0 || c.Recognition.PageSegMode > 13 {
		errs = append(errs, invalid("recognition.page_seg_mode %d outside 0-13", c.Recognition.PageSegMode))
	}

	for _, nr := range c.Card.Regions.Named() {
		errs = append(errs, validateRegion("card.regions."+nr.Name, nr.Spec)...)
	}
	errs = append(errs, validateRegion("stats.region", c.Stats.Region)...)

	if len([]rune(c.Card.Keywords.Team)) < extract.MinKeywordHits {
		errs = append(errs, invalid("card.keywords.team needs at least %d characters", extract.MinKeywordHits))
	}
	if len([]rune(c.Card.Keywords.Nationality)) < extract.MinKeywordHits {
		errs = append(errs, invalid("card.keywords.nationality needs at least %d characters", extract.MinKeywordHits))
	}

	if _, err := c.EditionExtractor(); err != nil {
		errs = append(errs, invalid("card.editions: %v", err))
	}

	for _, entry := range c.Stats.Table {
		if !extract.StatKey(entry.Key).IsKnown() {
			errs = append(errs, invalid("stats.table: unknown key %q", entry.Key))
		}
	}
	if _, err := c.StatTable(); err != nil {
		errs = append(errs, invalid("stats.table: %v", err))
	}

	return errors.Join(errs...)
}

func validateRegion(name string, spec RegionSpec) []error {
	var errs []error
	if err := spec.Region.Validate(); err != nil {
		errs = append(errs, invalid("%s: %v", name, err))
	}
	if spec.Language != HintLatin && spec.Language != HintMixed {
		errs = append(errs, invalid("%s.language %q must be %q or %q", name, spec.Language, HintLatin, HintMixed))
	}
	return errs
}
