package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// PointProbe describes one pixel as the binarizer sees it.
type PointProbe struct {
	X         int     `json:"x" yaml:"x"`
	Y         int     `json:"y" yaml:"y"`
	Hex       string  `json:"hex" yaml:"hex"`
	Luminance float64 `json:"luminance" yaml:"luminance"`
	Threshold int     `json:"threshold" yaml:"threshold"`
	// Ink is true when the pixel becomes black (text) after binarization.
	Ink bool `json:"ink" yaml:"ink"`
}

// RegionProbe summarizes luminance inside a region. InkRatio is the share of
// pixels that binarize to black at Threshold.
type RegionProbe struct {
	Rect      image.Rectangle `json:"rect" yaml:"rect"`
	Pixels    int             `json:"pixels" yaml:"pixels"`
	Mean      float64         `json:"mean" yaml:"mean"`
	Min       float64         `json:"min" yaml:"min"`
	Max       float64         `json:"max" yaml:"max"`
	Threshold int             `json:"threshold" yaml:"threshold"`
	InkRatio  float64         `json:"ink_ratio" yaml:"ink_ratio"`
}

func rgba8(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func checkThreshold(threshold int) error {
	if threshold < 0 || threshold > 255 {
		return fmt.Errorf("threshold %d outside 0-255", threshold)
	}
	return nil
}

// ProbePoint reports the color and luminance of the pixel at (x, y) and
// whether it counts as ink at threshold. Coordinates are relative to the
// image origin.
//
// Parameters:
//   - img: The decoded screenshot.
//   - x, y: Pixel coordinates from the top-left corner.
//   - threshold: Binarization threshold (0-255); a pixel brighter than it is ink.
//
// Returns:
//   - *PointProbe: Hex color, BT.709 luminance and the ink verdict.
//   - error: Non-nil when (x, y) is outside the image or threshold is out of range.
func ProbePoint(img image.Image, x, y, threshold int) (*PointProbe, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	pt := image.Pt(x, y).Add(bounds.Min)
	if !pt.In(bounds) {
		return nil, fmt.Errorf("coordinates (%d, %d) outside image bounds (%dx%d)", x, y, bounds.Dx(), bounds.Dy())
	}

	c := rgba8(img.At(pt.X, pt.Y))
	lum := Luminance(c.R, c.G, c.B)
	hex := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()

	return &PointProbe{
		X:         x,
		Y:         y,
		Hex:       hex,
		Luminance: lum,
		Threshold: threshold,
		Ink:       lum > float64(threshold),
	}, nil
}

// ProbeRegion reports luminance statistics for the pixels under r. Scale and
// Binarize on r are ignored; the source pixels are measured.
func ProbeRegion(img image.Image, r Region, threshold int) (*RegionProbe, error) {
	if err := checkThreshold(threshold); err != nil {
		return nil, err
	}
	rect, err := r.PixelRect(img.Bounds())
	if err != nil {
		return nil, err
	}

	probe := &RegionProbe{Rect: rect, Threshold: threshold, Min: 255}
	var sum float64
	var ink int
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := rgba8(img.At(x, y))
			lum := Luminance(c.R, c.G, c.B)
			sum += lum
			if lum < probe.Min {
				probe.Min = lum
			}
			if lum > probe.Max {
				probe.Max = lum
			}
			if lum > float64(threshold) {
				ink++
			}
		}
	}

	probe.Pixels = rect.Dx() * rect.Dy()
	probe.Mean = sum / float64(probe.Pixels)
	probe.InkRatio = float64(ink) / float64(probe.Pixels)
	return probe, nil
}
