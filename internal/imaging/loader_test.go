package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
)

// writeTestImage writes a solid-color PNG into a temp dir and returns its path.
func writeTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(width, height, c)); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	path := filepath.Join(t.TempDir(), "capture.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestDecode_Formats(t *testing.T) {
	img := createInMemoryImage(16, 8, color.RGBA{200, 100, 50, 255})

	tests := []struct {
		format string
		encode func(*bytes.Buffer) error
	}{
		{"png", func(b *bytes.Buffer) error { return png.Encode(b, img) }},
		{"jpeg", func(b *bytes.Buffer) error { return jpeg.Encode(b, img, nil) }},
		{"gif", func(b *bytes.Buffer) error { return gif.Encode(b, img, nil) }},
		{"bmp", func(b *bytes.Buffer) error { return bmp.Encode(b, img) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf); err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			decoded, format, err := Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %s, want %s", format, tt.format)
			}
			if decoded.Bounds() != image.Rect(0, 0, 16, 8) {
				t.Errorf("bounds = %v", decoded.Bounds())
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, _, err := Decode(nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, _, err := Decode([]byte("not an image")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, 100, 50, color.RGBA{255, 0, 0, 255})

	img, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 50 {
		t.Errorf("dimensions: got %v", img.Bounds())
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}

	// Second load is served from the cache even after the file is gone.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(path); err != nil {
		t.Errorf("cached Load failed: %v", err)
	}
}

func TestImageCache_LoadBytes(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, 10, 10, color.White)

	raw, err := cache.LoadBytes(path)
	if err != nil {
		t.Fatalf("LoadBytes failed: %v", err)
	}
	onDisk, _ := os.ReadFile(path)
	if !bytes.Equal(raw, onDisk) {
		t.Error("LoadBytes did not return the file contents")
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/image.png"); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(path); err == nil {
		t.Error("expected error for undecodable file")
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads should not be cached, Len = %d", cache.Len())
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	a := writeTestImage(t, 10, 10, color.White)
	b := writeTestImage(t, 10, 10, color.Black)

	if _, err := cache.Load(a); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(b); err != nil {
		t.Fatal(err)
	}

	cache.Evict(a)
	if cache.Len() != 1 {
		t.Errorf("after Evict Len = %d, want 1", cache.Len())
	}
	cache.Evict("/nonexistent/path")

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear Len = %d, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadImageInfo_FormatFromContent(t *testing.T) {
	cache := NewImageCache()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(10, 10, color.White)); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "screenshot.jpg")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png regardless of extension", info.Format)
	}
}
