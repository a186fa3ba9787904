package imaging

import (
	"image"
	"math"
	"sort"
)

// edgeDelta is the luminance step between neighbours that counts as an edge.
const edgeDelta = 30.0

// TextBlock is an area that looks like a line of text. Region is the same
// area in fractional coordinates, ready to paste into a layout.
type TextBlock struct {
	Rect       image.Rectangle `json:"rect" yaml:"rect"`
	Region     Region          `json:"region" yaml:"region"`
	Confidence float64         `json:"confidence" yaml:"confidence"`
}

// windowHeights are the probe heights as fractions of the image height,
// covering small labels up to the player name.
var windowHeights = []float64{0.03, 0.05, 0.08}

// FindTextBlocks scans img for horizontal bands of medium edge density, the
// signature of rendered text, and returns the merged candidates with
// confidence at least minConfidence, top to bottom.
func FindTextBlocks(img image.Image, minConfidence float64) []TextBlock {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	edges := edgeMap(img)

	var candidates []TextBlock
	for _, fh := range windowHeights {
		wh := int(math.Round(fh * float64(height)))
		if wh < 4 {
			wh = 4
		}
		ww := wh * 4
		if ww > width || wh > height {
			continue
		}
		stepX, stepY := ww/2, wh/2

		for y := 0; y+wh <= height; y += stepY {
			for x := 0; x+ww <= width; x += stepX {
				density := edgeDensity(edges, x, y, ww, wh)
				if density < 0.05 || density > 0.4 {
					continue
				}
				confidence := horizontalScore(edges, x, y, ww, wh) * (1 - math.Abs(density-0.2)/0.2)
				if confidence < minConfidence {
					continue
				}
				candidates = append(candidates, TextBlock{
					Rect:       image.Rect(x, y, x+ww, y+wh).Add(bounds.Min),
					Confidence: math.Round(confidence*1000) / 1000,
				})
			}
		}
	}

	blocks := mergeBlocks(candidates)
	for i := range blocks {
		blocks[i].Region = fractionOf(blocks[i].Rect, bounds)
	}
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Rect.Min.Y != blocks[j].Rect.Min.Y {
			return blocks[i].Rect.Min.Y < blocks[j].Rect.Min.Y
		}
		return blocks[i].Rect.Min.X < blocks[j].Rect.Min.X
	})
	return blocks
}

// edgeMap marks pixels whose luminance differs from the right or lower
// neighbour by more than edgeDelta. Indices are relative to the image origin.
func edgeMap(img image.Image) [][]bool {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	lum := make([][]float64, height)
	for y := 0; y < height; y++ {
		lum[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			c := rgba8(img.At(x+bounds.Min.X, y+bounds.Min.Y))
			lum[y][x] = Luminance(c.R, c.G, c.B)
		}
	}

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		if y == height-1 {
			continue
		}
		for x := 0; x < width-1; x++ {
			dx := math.Abs(lum[y][x] - lum[y][x+1])
			dy := math.Abs(lum[y][x] - lum[y+1][x])
			edges[y][x] = dx > edgeDelta || dy > edgeDelta
		}
	}
	return edges
}

func edgeDensity(edges [][]bool, x, y, w, h int) float64 {
	count := 0
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				count++
			}
		}
	}
	return float64(count) / float64(w*h)
}

// horizontalScore is the share of edge runs that go along rows. Text lines
// produce more row runs than column runs.
func horizontalScore(edges [][]bool, x, y, w, h int) float64 {
	rows, cols := 0, 0
	for row := y; row < y+h; row++ {
		in := false
		for col := x; col < x+w; col++ {
			if edges[row][col] && !in {
				rows++
			}
			in = edges[row][col]
		}
	}
	for col := x; col < x+w; col++ {
		in := false
		for row := y; row < y+h; row++ {
			if edges[row][col] && !in {
				cols++
			}
			in = edges[row][col]
		}
	}
	if rows+cols == 0 {
		return 0
	}
	return float64(rows) / float64(rows+cols)
}

// mergeBlocks unions overlapping candidates until no two overlap.
func mergeBlocks(candidates []TextBlock) []TextBlock {
	merged := make([]TextBlock, 0, len(candidates))
	for _, c := range candidates {
		merged = absorb(merged, c)
	}
	return merged
}

func absorb(blocks []TextBlock, b TextBlock) []TextBlock {
	for i := range blocks {
		if blocks[i].Rect.Overlaps(b.Rect) {
			b.Rect = b.Rect.Union(blocks[i].Rect)
			b.Confidence = math.Max(b.Confidence, blocks[i].Confidence)
			rest := append(blocks[:i:i], blocks[i+1:]...)
			return absorb(rest, b)
		}
	}
	return append(blocks, b)
}

// fractionOf expresses rect as a Region of bounds, truncated to 4 places so
// the result never reaches past the image edge.
func fractionOf(rect, bounds image.Rectangle) Region {
	fw, fh := float64(bounds.Dx()), float64(bounds.Dy())
	trunc := func(v float64) float64 { return math.Floor(v*10000) / 10000 }
	return Region{
		X: trunc(float64(rect.Min.X-bounds.Min.X) / fw),
		Y: trunc(float64(rect.Min.Y-bounds.Min.Y) / fh),
		W: trunc(float64(rect.Dx()) / fw),
		H: trunc(float64(rect.Dy()) / fh),
	}
}
