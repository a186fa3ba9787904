package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Decode decodes a screenshot in any registered raster format (PNG, JPEG, GIF,
// BMP, WebP) and returns the image with its format name.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("failed to decode image: empty input")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// ImageCache keeps decoded screenshots keyed by file path so that repeated
// tool calls against the same capture (overlay, probe, analyze) decode it once.
//
// ImageCache is safe for concurrent use.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]cachedImage
}

type cachedImage struct {
	img    image.Image
	raw    []byte
	format string
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		entries: make(map[string]cachedImage),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
func (c *ImageCache) Load(path string) (image.Image, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.img, nil
}

// LoadBytes returns the original encoded bytes of the file at path.
func (c *ImageCache) LoadBytes(path string) ([]byte, error) {
	entry, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return entry.raw, nil
}

func (c *ImageCache) load(path string) (cachedImage, error) {
	c.mu.RLock()
	if entry, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cachedImage{}, fmt.Errorf("failed to open image: %w", err)
	}
	img, format, err := Decode(raw)
	if err != nil {
		return cachedImage{}, err
	}

	entry := cachedImage{img: img, raw: raw, format: format}
	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Evict drops path from the cache. A recaptured screenshot saved under the
// same name is read again on the next Load.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Clear empties the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ImageInfo describes a loaded screenshot.
type ImageInfo struct {
	Width         int    `json:"width" yaml:"width"`
	Height        int    `json:"height" yaml:"height"`
	Format        string `json:"format" yaml:"format"`
	FileSizeBytes int    `json:"file_size_bytes" yaml:"file_size_bytes"`
}

// LoadImageInfo loads path through cache and reports its dimensions and the
// format detected from its contents.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}
	bounds := entry.img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        entry.format,
		FileSizeBytes: len(entry.raw),
	}, nil
}
