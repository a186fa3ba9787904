package imaging

import (
	"image"
	"image/color"
)

// createInMemoryImage creates a solid-color image of the given size.
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPanelImage creates a dark panel with a light bar covering the given
// pixel rectangle, the way stat labels sit on a card screen.
func createPanelImage(width, height int, bar image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	dark := color.RGBA{30, 30, 40, 255}
	light := color.RGBA{230, 230, 230, 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if image.Pt(x, y).In(bar) {
				img.Set(x, y, light)
			} else {
				img.Set(x, y, dark)
			}
		}
	}
	return img
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}
