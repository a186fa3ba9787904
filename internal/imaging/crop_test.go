package imaging

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestCrop(t *testing.T) {
	img := createInMemoryImage(300, 200, color.RGBA{10, 20, 30, 255})

	result, err := Crop(img, Region{X: 0.5, Y: 0.25, W: 0.5, H: 0.5})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if result.Width != 150 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 150x100", result.Width, result.Height)
	}
	if result.Rect != image.Rect(150, 50, 300, 150) {
		t.Errorf("Rect: got %v", result.Rect)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	if _, _, err := Decode(data); err != nil {
		t.Errorf("crop is not a decodable image: %v", err)
	}
}

func TestCrop_ScaledKeepsSourceRect(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)

	result, err := Crop(img, Region{X: 0, Y: 0, W: 0.5, H: 0.5, Scale: 3})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if result.Width != 150 || result.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 150x150", result.Width, result.Height)
	}
	if result.Rect != image.Rect(0, 0, 50, 50) {
		t.Errorf("Rect should describe the source pixels, got %v", result.Rect)
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(100, 100, color.White)
	_, err := Crop(img, Region{X: 0.8, Y: 0, W: 0.3, H: 1})
	if !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("expected ErrInvalidRegion, got %v", err)
	}
}
