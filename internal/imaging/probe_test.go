package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestProbePoint(t *testing.T) {
	img := createPanelImage(100, 100, image.Rect(50, 0, 100, 100))

	tests := []struct {
		name    string
		x, y    int
		hex     string
		wantInk bool
	}{
		{"panel", 10, 10, "#1e1e28", false},
		{"label", 75, 10, "#e6e6e6", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ProbePoint(img, tt.x, tt.y, 110)
			if err != nil {
				t.Fatalf("ProbePoint failed: %v", err)
			}
			if p.Hex != tt.hex {
				t.Errorf("Hex = %s, want %s", p.Hex, tt.hex)
			}
			if p.Ink != tt.wantInk {
				t.Errorf("Ink = %v, want %v (luminance %.1f)", p.Ink, tt.wantInk, p.Luminance)
			}
		})
	}
}

func TestProbePoint_Errors(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	if _, err := ProbePoint(img, 10, 0, 110); err == nil {
		t.Error("expected error for x == width")
	}
	if _, err := ProbePoint(img, -1, 0, 110); err == nil {
		t.Error("expected error for negative x")
	}
	if _, err := ProbePoint(img, 0, 0, 300); err == nil {
		t.Error("expected error for threshold above 255")
	}
}

func TestProbeRegion(t *testing.T) {
	img := createPanelImage(100, 100, image.Rect(50, 0, 100, 100))

	p, err := ProbeRegion(img, Region{X: 0, Y: 0, W: 1, H: 1}, 110)
	if err != nil {
		t.Fatalf("ProbeRegion failed: %v", err)
	}
	if p.Pixels != 10000 {
		t.Errorf("Pixels = %d, want 10000", p.Pixels)
	}
	if math.Abs(p.InkRatio-0.5) > 1e-9 {
		t.Errorf("InkRatio = %.3f, want 0.5", p.InkRatio)
	}
	if math.Abs(p.Max-230) > 0.01 {
		t.Errorf("Max = %.2f, want 230", p.Max)
	}
	if p.Min >= p.Mean || p.Mean >= p.Max {
		t.Errorf("expected Min < Mean < Max, got %.2f %.2f %.2f", p.Min, p.Mean, p.Max)
	}
}
