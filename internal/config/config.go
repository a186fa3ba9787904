// Package config loads cardscan settings: recognition options, card and stat
// regions, keyword labels, edition names and the stat alias table.
//
// Defaults are embedded from defaults.yaml. A user file (--config, or
// cardscan.yaml in the working directory or $HOME/.cardscan) and CARDSCAN_
// environment variables override them key by key.
package config

import (
	"time"

	"github.com/ironsheep/cardscan/internal/extract"
	"github.com/ironsheep/cardscan/internal/imaging"
)

// Language hints accepted by RegionSpec.Language.
const (
	HintLatin = "latin"
	HintMixed = "mixed"
)

// Config is the full cardscan configuration.
type Config struct {
	LogLevel    string            `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Recognition RecognitionConfig `mapstructure:"recognition" yaml:"recognition" json:"recognition"`
	Card        CardConfig        `mapstructure:"card" yaml:"card" json:"card"`
	Stats       StatsConfig       `mapstructure:"stats" yaml:"stats" json:"stats"`
}

// RecognitionConfig configures the Tesseract engine.
type RecognitionConfig struct {
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	LatinLanguage  string        `mapstructure:"latin_language" yaml:"latin_language" json:"latin_language"`
	MixedLanguage  string        `mapstructure:"mixed_language" yaml:"mixed_language" json:"mixed_language"`
	TessdataPrefix string        `mapstructure:"tessdata_prefix" yaml:"tessdata_prefix" json:"tessdata_prefix"`
	PageSegMode    int           `mapstructure:"page_seg_mode" yaml:"page_seg_mode" json:"page_seg_mode"`
}

// RegionSpec is a crop region plus the language hint used to read it.
type RegionSpec struct {
	imaging.Region `mapstructure:",squash" yaml:",inline"`
	Language       string `mapstructure:"language" yaml:"language" json:"language"`
}

// CardRegions are the crops taken from a full card screenshot.
type CardRegions struct {
	Full    RegionSpec `mapstructure:"full" yaml:"full" json:"full"`
	Name    RegionSpec `mapstructure:"name" yaml:"name" json:"name"`
	Profile RegionSpec `mapstructure:"profile" yaml:"profile" json:"profile"`
	Edition RegionSpec `mapstructure:"edition" yaml:"edition" json:"edition"`
}

// Named returns the regions in display order.
func (r CardRegions) Named() []NamedRegionSpec {
	return []NamedRegionSpec{
		{Name: "full", Spec: r.Full},
		{Name: "name", Spec: r.Name},
		{Name: "profile", Spec: r.Profile},
		{Name: "edition", Spec: r.Edition},
	}
}

// NamedRegionSpec pairs a region with its layout name.
type NamedRegionSpec struct {
	Name string
	Spec RegionSpec
}

// KeywordConfig holds the label characters searched for in the profile text.
type KeywordConfig struct {
	Team        string `mapstructure:"team" yaml:"team" json:"team"`
	Nationality string `mapstructure:"nationality" yaml:"nationality" json:"nationality"`
}

// CardConfig configures full card analysis.
type CardConfig struct {
	Regions  CardRegions   `mapstructure:"regions" yaml:"regions" json:"regions"`
	Keywords KeywordConfig `mapstructure:"keywords" yaml:"keywords" json:"keywords"`
	Editions []string      `mapstructure:"editions" yaml:"editions" json:"editions"`
}

// StatAlias lists the label spellings of one stat.
type StatAlias struct {
	Key     string   `mapstructure:"key" yaml:"key" json:"key"`
	Aliases []string `mapstructure:"aliases" yaml:"aliases" json:"aliases"`
}

// StatsConfig configures stat screenshot extraction.
type StatsConfig struct {
	Region RegionSpec  `mapstructure:"region" yaml:"region" json:"region"`
	Table  []StatAlias `mapstructure:"table" yaml:"table" json:"table"`
}

// Language resolves a region's language hint to a Tesseract language string.
func (c *Config) Language(hint string) string {
	if hint == HintLatin {
		return c.Recognition.LatinLanguage
	}
	return c.Recognition.MixedLanguage
}

// StatDefs converts the alias table for extract.NewStatTable.
func (c *StatsConfig) StatDefs() []extract.StatDef {
	defs := make([]extract.StatDef, len(c.Table))
	for i, entry := range c.Table {
		defs[i] = extract.StatDef{
			Key:     extract.StatKey(entry.Key),
			Aliases: append([]string(nil), entry.Aliases...),
		}
	}
	return defs
}

// StatTable builds the matcher for the configured alias table. The value
// range is fixed at [extract.MinStat, extract.MaxStat].
func (c *Config) StatTable() (*extract.StatTable, error) {
	return extract.NewStatTable(c.Stats.StatDefs())
}

// EditionExtractor builds the edition matcher for the configured labels.
func (c *Config) EditionExtractor() (*extract.EditionExtractor, error) {
	return extract.NewEditionExtractor(c.Card.Editions)
}
