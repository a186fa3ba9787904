package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
)

// BT.709 luma weights. The card palette draws labels in light gray and yellow
// on dark panels; these weights separate them from the background.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// Luminance returns the BT.709 luminance (0-255) of an 8-bit RGB triple.
func Luminance(r, g, b uint8) float64 {
	return lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b)
}

// Binarize maps every pixel brighter than threshold to black and every other
// pixel to white.
//
// This is the inverse of the usual convention: glyphs on the card screens are
// brighter than their background, and Tesseract reads dark text on a light page
// best.
func Binarize(img image.Image, threshold uint8) *image.RGBA {
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		if Luminance(c.R, c.G, c.B) > float64(threshold) {
			return color.RGBA{0, 0, 0, 255}
		}
		return color.RGBA{255, 255, 255, 255}
	})
}
