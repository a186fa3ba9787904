package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/ironsheep/cardscan/internal/config"
	"github.com/ironsheep/cardscan/internal/extract"
	"github.com/ironsheep/cardscan/internal/imaging"
	"github.com/ironsheep/cardscan/internal/ocr"
)

var (
	// ErrDecodeImage wraps failures to decode an input screenshot.
	ErrDecodeImage = errors.New("cannot decode image")

	// ErrNoImages is returned by ExtractStats for an empty image list.
	ErrNoImages = errors.New("no images supplied")
)

// Layout names accepted by Layout.
const (
	LayoutCard  = "card"
	LayoutStats = "stats"
)

// ExtractionResult holds the fields read from a full card screenshot. A nil
// field was not found.
type ExtractionResult struct {
	FullText    string  `json:"full_text" yaml:"full_text"`
	Name        *string `json:"name" yaml:"name"`
	Team        *string `json:"team" yaml:"team"`
	Nationality *string `json:"nationality" yaml:"nationality"`
	CardEdition *string `json:"card_edition" yaml:"card_edition"`
}

// Pipeline runs card and stat extraction against an engine. It is safe for
// concurrent use; each call gets its own batch of sessions.
type Pipeline struct {
	engine ocr.Engine
	logger *slog.Logger

	mu       sync.RWMutex
	cfg      *config.Config
	stats    *extract.StatTable
	editions *extract.EditionExtractor
}

type snapshot struct {
	cfg      *config.Config
	stats    *extract.StatTable
	editions *extract.EditionExtractor
}

// New creates a pipeline. cfg must pass Validate.
func New(engine ocr.Engine, cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if engine == nil {
		return nil, errors.New("pipeline: nil engine")
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{engine: engine, logger: logger}
	if err := p.SetConfig(cfg); err != nil {
		return nil, err
	}
	return p, nil
}

// SetConfig swaps in a new configuration. Calls already running keep the
// configuration they started with.
func (p *Pipeline) SetConfig(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("pipeline: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	stats, err := cfg.StatTable()
	if err != nil {
		return err
	}
	editions, err := cfg.EditionExtractor()
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.cfg, p.stats, p.editions = cfg, stats, editions
	p.mu.Unlock()
	return nil
}

// Config returns the configuration in effect.
func (p *Pipeline) Config() *config.Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

func (p *Pipeline) snapshot() snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return snapshot{cfg: p.cfg, stats: p.stats, editions: p.editions}
}

// MissingStats returns the configured stat keys absent from stats, in the
// order the stat table matches them.
func (p *Pipeline) MissingStats(stats extract.StatMap) []extract.StatKey {
	missing := []extract.StatKey{}
	for _, key := range p.snapshot().stats.Keys() {
		if _, ok := stats[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Layout returns the named regions of a layout for overlays and crops.
func (p *Pipeline) Layout(name string) ([]imaging.NamedRegion, error) {
	cfg := p.Config()
	switch name {
	case LayoutCard:
		specs := cfg.Card.Regions.Named()
		regions := make([]imaging.NamedRegion, len(specs))
		for i, s := range specs {
			regions[i] = imaging.NamedRegion{Name: s.Name, Region: s.Spec.Region}
		}
		return regions, nil
	case LayoutStats:
		return []imaging.NamedRegion{{Name: "stats", Region: cfg.Stats.Region.Region}}, nil
	default:
		return nil, fmt.Errorf("unknown layout %q (want %q or %q)", name, LayoutCard, LayoutStats)
	}
}

// FindRegion looks up a region by name across both layouts.
func (p *Pipeline) FindRegion(name string) (imaging.Region, error) {
	for _, layout := range []string{LayoutCard, LayoutStats} {
		regions, _ := p.Layout(layout)
		for _, r := range regions {
			if r.Name == name {
				return r.Region, nil
			}
		}
	}
	return imaging.Region{}, fmt.Errorf("unknown region %q", name)
}

// Decode decodes a screenshot, wrapping failures in ErrDecodeImage.
func Decode(data []byte) (image.Image, error) {
	img, _, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	return img, nil
}

// readRegion crops spec from img and recognizes it. ok is false when the
// region was skipped; err is set only for failures that must abort the call.
func (p *Pipeline) readRegion(ctx context.Context, logger *slog.Logger, batch *ocr.Batch, cfg *config.Config, img image.Image, name string, spec config.RegionSpec) (text string, ok bool, err error) {
	png, err := imaging.ExtractRegion(img, spec.Region)
	if err != nil {
		if errors.Is(err, imaging.ErrInvalidRegion) {
			logger.Warn("region skipped", "region", name, "error", err)
			return "", false, nil
		}
		return "", false, err
	}

	language := cfg.Language(spec.Language)
	text, err = batch.Recognize(ctx, language, png)
	switch {
	case err == nil:
		logger.Debug("region recognized", "region", name, "language", language, "chars", len([]rune(text)))
		return text, true, nil
	case errors.Is(err, ocr.ErrRecognitionUnavailable):
		return "", false, err
	case ctx.Err() != nil:
		return "", false, ctx.Err()
	default:
		logger.Warn("region recognition failed", "region", name, "language", language, "error", err)
		return "", false, nil
	}
}

func (p *Pipeline) closeBatch(logger *slog.Logger, batch *ocr.Batch) {
	if err := batch.Close(); err != nil {
		logger.Warn("failed to close recognition sessions", "error", err)
		return
	}
	logger.Debug("recognition sessions closed", "languages", batch.Languages(), "retired", batch.Retired())
}

func strPtr(s string) *string {
	return &s
}
