package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/cardscan/internal/extract"
	"github.com/ironsheep/cardscan/internal/ocr"
)

// ExtractStats reads ability scores from stat screenshots in order. A key
// read from an earlier image is never replaced by a later one. Every image is
// decoded before recognition starts.
//
// Parameters:
//   - ctx: Cancels the run between and during recognition calls.
//   - images: Encoded screenshots, at least one.
//
// Returns:
//   - extract.StatMap: Canonical stat key to value. Only values within
//     [extract.MinStat, extract.MaxStat] appear; keys never read are absent.
//   - error: ErrNoImages for an empty slice, ErrDecodeImage naming the failed
//     index, ocr.ErrRecognitionUnavailable, or the context's error.
func (p *Pipeline) ExtractStats(ctx context.Context, images [][]byte) (extract.StatMap, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	decoded := make([]image.Image, len(images))
	for i, data := range images {
		img, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		decoded[i] = img
	}
	return p.ExtractStatsImages(ctx, decoded)
}

// ExtractStatsImages is ExtractStats for already decoded images.
func (p *Pipeline) ExtractStatsImages(ctx context.Context, images []image.Image) (extract.StatMap, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	snap := p.snapshot()
	logger := p.logger.With("batch_id", uuid.NewString(), "op", "extract_stats", "images", len(images))
	start := time.Now()

	batch := ocr.NewBatch(p.engine)
	defer p.closeBatch(logger, batch)

	acc := extract.StatMap{}
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, ok, err := p.readRegion(ctx, logger.With("image", i), batch, snap.cfg, img, "stats", snap.cfg.Stats.Region)
		if err != nil {
			return nil, err
		}
		if !ok {
			logger.Warn("stat image skipped", "image", i)
			continue
		}

		committed := snap.stats.MergeLines(acc, extract.SplitLines(text))
		logger.Debug("stat image merged", "image", i, "committed", committed, "total", len(acc))
	}

	logger.Info("stats extracted", "found", len(acc), "duration", time.Since(start).Round(time.Millisecond))
	return acc, nil
}
