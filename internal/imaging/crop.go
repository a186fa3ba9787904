package imaging

import (
	"encoding/base64"
	"image"
)

// CropResult contains a cropped region encoded for transport.
type CropResult struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Rect        image.Rectangle `json:"rect"`
	ImageBase64 string          `json:"image_base64"`
	MimeType    string          `json:"mime_type"`
}

// Crop extracts r from img exactly as the recognizer would see it and returns
// the PNG as base64, along with the source pixel rectangle.
//
// Parameters:
//   - img: The decoded screenshot.
//   - r: Fractional region. Its Scale and Binarize settings are applied to the
//     crop the same way ExtractRegion applies them.
//
// Returns:
//   - *CropResult: The encoded crop, its pixel size and the source rectangle.
//   - error: Wraps ErrInvalidRegion when r falls outside [0,1] or covers no
//     pixels; otherwise an encoding failure.
func Crop(img image.Image, r Region) (*CropResult, error) {
	rect, err := r.PixelRect(img.Bounds())
	if err != nil {
		return nil, err
	}
	out, err := CropRegion(img, r)
	if err != nil {
		return nil, err
	}
	data, err := EncodePNG(out)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		Rect:        rect,
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}
