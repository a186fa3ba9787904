package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// regionEpsilon absorbs float error in x+w and y+h sums such as 0.22+0.78.
const regionEpsilon = 1e-9

// ErrInvalidRegion is matched by every *InvalidRegionError via errors.Is.
var ErrInvalidRegion = errors.New("invalid region")

// Region is a rectangle in fractional image coordinates.
//
// X and Y are the offset of the top-left corner and W and H the size, all as
// fractions (0..1) of the source width and height. The rectangle must lie
// inside the image; it is never clamped.
//
// When Binarize is set the crop is thresholded on BT.709 luminance with
// Threshold (0-255). Scale, when positive and not 1, resizes the crop before
// thresholding.
type Region struct {
	X         float64 `mapstructure:"x" yaml:"x" json:"x"`
	Y         float64 `mapstructure:"y" yaml:"y" json:"y"`
	W         float64 `mapstructure:"w" yaml:"w" json:"w"`
	H         float64 `mapstructure:"h" yaml:"h" json:"h"`
	Binarize  bool    `mapstructure:"binarize" yaml:"binarize" json:"binarize"`
	Threshold int     `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	Scale     float64 `mapstructure:"scale" yaml:"scale,omitempty" json:"scale,omitempty"`
}

// InvalidRegionError reports a region that cannot be cropped.
type InvalidRegionError struct {
	Region Region
	Reason string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("invalid region (x=%.3f y=%.3f w=%.3f h=%.3f): %s",
		e.Region.X, e.Region.Y, e.Region.W, e.Region.H, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidRegion) true.
func (e *InvalidRegionError) Is(target error) bool {
	return target == ErrInvalidRegion
}

func (r Region) invalid(format string, args ...interface{}) error {
	return &InvalidRegionError{Region: r, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the fractional bounds and threshold of r.
func (r Region) Validate() error {
	for _, v := range []float64{r.X, r.Y, r.W, r.H, r.Scale} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return r.invalid("non-finite coordinate")
		}
	}
	if r.X < 0 || r.Y < 0 {
		return r.invalid("negative offset")
	}
	if r.W <= 0 || r.H <= 0 {
		return r.invalid("non-positive size")
	}
	if r.X+r.W > 1+regionEpsilon {
		return r.invalid("x+w=%.3f exceeds image width", r.X+r.W)
	}
	if r.Y+r.H > 1+regionEpsilon {
		return r.invalid("y+h=%.3f exceeds image height", r.Y+r.H)
	}
	if r.Threshold < 0 || r.Threshold > 255 {
		return r.invalid("threshold %d outside 0-255", r.Threshold)
	}
	if r.Scale < 0 {
		return r.invalid("negative scale")
	}
	return nil
}

// PixelRect converts r to an absolute pixel rectangle within bounds.
//
// Edges are rounded to the nearest pixel. The result is rejected when it has
// no area, which happens for slivers narrower than half a pixel.
func (r Region) PixelRect(bounds image.Rectangle) (image.Rectangle, error) {
	if err := r.Validate(); err != nil {
		return image.Rectangle{}, err
	}

	w := float64(bounds.Dx())
	h := float64(bounds.Dy())
	x0 := int(math.Round(w * r.X))
	y0 := int(math.Round(h * r.Y))
	x1 := int(math.Round(w * (r.X + r.W)))
	y1 := int(math.Round(h * (r.Y + r.H)))
	if x1 > bounds.Dx() {
		x1 = bounds.Dx()
	}
	if y1 > bounds.Dy() {
		y1 = bounds.Dy()
	}

	rect := image.Rect(x0, y0, x1, y1).Add(bounds.Min)
	if rect.Empty() {
		return image.Rectangle{}, r.invalid("empty crop area in %dx%d image", bounds.Dx(), bounds.Dy())
	}
	return rect, nil
}

// CropRegion cuts r out of img, then applies scaling and binarization.
func CropRegion(img image.Image, r Region) (image.Image, error) {
	rect, err := r.PixelRect(img.Bounds())
	if err != nil {
		return nil, err
	}

	var out image.Image = imaging.Crop(img, rect)

	if r.Scale > 0 && r.Scale != 1.0 {
		newWidth := int(math.Round(float64(rect.Dx()) * r.Scale))
		newHeight := int(math.Round(float64(rect.Dy()) * r.Scale))
		if newWidth < 1 || newHeight < 1 {
			return nil, r.invalid("scale %.2f collapses %dx%d crop", r.Scale, rect.Dx(), rect.Dy())
		}
		out = imaging.Resize(out, newWidth, newHeight, imaging.Lanczos)
	}

	if r.Binarize {
		out = Binarize(out, uint8(r.Threshold))
	}
	return out, nil
}

// ExtractRegion crops r from img and returns it PNG-encoded, ready for the
// recognizer.
func ExtractRegion(img image.Image, r Region) ([]byte, error) {
	out, err := CropRegion(img, r)
	if err != nil {
		return nil, err
	}
	return EncodePNG(out)
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
