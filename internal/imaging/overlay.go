package imaging

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
)

// OverlayPalette cycles through these outline colors, one per region.
var OverlayPalette = []string{"#FF3B30", "#34C759", "#0A84FF", "#FFD60A", "#BF5AF2", "#64D2FF"}

// NamedRegion pairs a Region with a display name for overlays.
type NamedRegion struct {
	Name   string
	Region Region
}

// OverlayRegion reports where one region landed on the image.
type OverlayRegion struct {
	Index int             `json:"index"`
	Name  string          `json:"name"`
	Rect  image.Rectangle `json:"rect"`
	Color string          `json:"color"`
	Error string          `json:"error,omitempty"`
}

// OverlayResult contains the annotated screenshot.
type OverlayResult struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	ImageBase64 string          `json:"image_base64"`
	MimeType    string          `json:"mime_type"`
	Regions     []OverlayRegion `json:"regions"`
}

// RegionOverlay outlines each region on a copy of img and tags it with its
// index, so a layout can be checked against a real capture. Regions that do not
// fit the image are reported with an error and not drawn.
//
// Parameters:
//   - img: The screenshot to draw on. It is not modified.
//   - regions: Named fractional regions, drawn in order with cycling colors.
//   - thickness: Outline width in pixels. Values below 1 use 2.
//
// Returns:
//   - *OverlayResult: The annotated PNG as base64 and one entry per region.
//   - error: Non-nil only when the annotated image cannot be encoded.
func RegionOverlay(img image.Image, regions []NamedRegion, thickness int) (*OverlayResult, error) {
	if thickness < 1 {
		thickness = 2
	}
	bounds := img.Bounds()

	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	labelColor := color.RGBA{255, 255, 255, 255}
	bgColor := color.RGBA{0, 0, 0, 200}

	placed := make([]OverlayRegion, 0, len(regions))
	for i, nr := range regions {
		hex := OverlayPalette[i%len(OverlayPalette)]
		entry := OverlayRegion{Index: i, Name: nr.Name, Color: hex}

		rect, err := nr.Region.PixelRect(bounds)
		if err != nil {
			entry.Error = err.Error()
			placed = append(placed, entry)
			continue
		}
		entry.Rect = rect

		outline, err := parseHexColor(hex)
		if err != nil {
			return nil, err
		}
		drawOutline(result, rect, thickness, outline)
		drawLabel(result, rect.Min.X+thickness+1, rect.Min.Y+thickness+1, strconv.Itoa(i), labelColor, bgColor)
		placed = append(placed, entry)
	}

	data, err := EncodePNG(result)
	if err != nil {
		return nil, err
	}

	return &OverlayResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
		Regions:     placed,
	}, nil
}

// parseHexColor parses "#RRGGBB" into an opaque color.
func parseHexColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

func drawOutline(img *image.RGBA, rect image.Rectangle, thickness int, c color.RGBA) {
	rect = rect.Intersect(img.Bounds())
	for i := 0; i < thickness; i++ {
		top := image.Rect(rect.Min.X, rect.Min.Y+i, rect.Max.X, rect.Min.Y+i+1)
		bottom := image.Rect(rect.Min.X, rect.Max.Y-i-1, rect.Max.X, rect.Max.Y-i)
		left := image.Rect(rect.Min.X+i, rect.Min.Y, rect.Min.X+i+1, rect.Max.Y)
		right := image.Rect(rect.Max.X-i-1, rect.Min.Y, rect.Max.X-i, rect.Max.Y)
		for _, edge := range []image.Rectangle{top, bottom, left, right} {
			draw.Draw(img, edge.Intersect(rect), &image.Uniform{c}, image.Point{}, draw.Src)
		}
	}
}

// drawLabel draws digits in a 3x5 pixel font on a filled background.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}

	const charWidth = 4
	const labelHeight = 7
	labelWidth := len(text) * charWidth

	bounds := img.Bounds()
	inBounds := func(px, py int) bool {
		return image.Pt(px, py).In(bounds)
	}

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			if inBounds(x+dx, y+dy) {
				img.Set(x+dx, y+dy, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				if pixel == '1' && inBounds(cx+col, y+row) {
					img.Set(cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
