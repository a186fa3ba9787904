package pipeline

import (
	"context"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/cardscan/internal/extract"
	"github.com/ironsheep/cardscan/internal/ocr"
)

// AnalyzeCard extracts name, team, nationality and edition from a full card
// screenshot.
//
// Parameters:
//   - ctx: Cancels the run between and during recognition calls.
//   - data: Encoded screenshot bytes (PNG, JPEG, GIF, BMP or WebP).
//
// Returns:
//   - *ExtractionResult: Every field the run could read. Fields that were not
//     found, or whose region timed out, are nil.
//   - error: ErrDecodeImage for unreadable input, ocr.ErrRecognitionUnavailable when
//     the backend cannot run, or the context's error after cancellation.
//
// Each recognition call is bounded by the configured timeout, including time
// spent waiting behind an earlier call that overran it.
func (p *Pipeline) AnalyzeCard(ctx context.Context, data []byte) (*ExtractionResult, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeCardImage(ctx, img)
}

// AnalyzeCardImage is AnalyzeCard for an already decoded image.
func (p *Pipeline) AnalyzeCardImage(ctx context.Context, img image.Image) (*ExtractionResult, error) {
	snap := p.snapshot()
	cfg := snap.cfg
	logger := p.logger.With("batch_id", uuid.NewString(), "op", "analyze_card")
	start := time.Now()

	batch := ocr.NewBatch(p.engine)
	defer p.closeBatch(logger, batch)

	regions := cfg.Card.Regions
	result := &ExtractionResult{}

	full, _, err := p.readRegion(ctx, logger, batch, cfg, img, "full", regions.Full)
	if err != nil {
		return nil, err
	}
	result.FullText = strings.TrimSpace(full)

	nameText, ok, err := p.readRegion(ctx, logger, batch, cfg, img, "name", regions.Name)
	if err != nil {
		return nil, err
	}
	if ok {
		if name := firstLine(nameText); name != "" {
			result.Name = strPtr(name)
		}
	}

	profile, _, err := p.readRegion(ctx, logger, batch, cfg, img, "profile", regions.Profile)
	if err != nil {
		return nil, err
	}
	result.Team = keywordValue(profile, full, cfg.Card.Keywords.Team)
	result.Nationality = keywordValue(profile, full, cfg.Card.Keywords.Nationality)

	editionText, _, err := p.readRegion(ctx, logger, batch, cfg, img, "edition", regions.Edition)
	if err != nil {
		return nil, err
	}
	result.CardEdition = editionValue(snap.editions, editionText, full)

	logger.Info("card analyzed",
		"name", result.Name != nil,
		"team", result.Team != nil,
		"nationality", result.Nationality != nil,
		"card_edition", result.CardEdition != nil,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}

// firstLine returns the first non-blank line of raw, trimmed.
func firstLine(raw string) string {
	for _, line := range extract.SplitLines(raw) {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// keywordValue searches the profile crop first and the full text second.
func keywordValue(profile, full, keywordChars string) *string {
	for _, raw := range []string{profile, full} {
		if v := extract.ByKeywords(raw, keywordChars); v != "" {
			return strPtr(v)
		}
	}
	return nil
}

// editionValue tries the edition crop, then the full text, and finally falls
// back to the edition crop flattened onto one line.
func editionValue(editions *extract.EditionExtractor, editionText, full string) *string {
	if v, ok := editions.Extract(editionText); ok {
		return strPtr(v)
	}
	if v, ok := editions.Extract(full); ok {
		return strPtr(v)
	}
	if flat := strings.Join(strings.Fields(editionText), " "); flat != "" {
		return strPtr(flat)
	}
	return nil
}
