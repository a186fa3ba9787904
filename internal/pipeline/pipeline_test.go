package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"
	"time"

	"github.com/ironsheep/cardscan/internal/config"
	"github.com/ironsheep/cardscan/internal/extract"
	"github.com/ironsheep/cardscan/internal/logging"
	"github.com/ironsheep/cardscan/internal/ocr"
)

// screenshot returns a PNG of the given size. The mock engine ignores pixels,
// so only the dimensions matter.
func screenshot(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{20, 20, 30, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode screenshot: %v", err)
	}
	return buf.Bytes()
}

func newPipeline(t *testing.T, engine ocr.Engine) *Pipeline {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default failed: %v", err)
	}
	p, err := New(engine, cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func deref(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func TestNew_Errors(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(nil, cfg, nil); err == nil {
		t.Error("expected error for nil engine")
	}
	if _, err := New(ocr.NewMockEngine(), nil, nil); err == nil {
		t.Error("expected error for nil config")
	}

	bad := *cfg
	bad.Stats.Region.X = 0.9
	if _, err := New(ocr.NewMockEngine(), &bad, nil); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLayout(t *testing.T) {
	p := newPipeline(t, ocr.NewMockEngine())

	card, err := p.Layout(LayoutCard)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, r := range card {
		names = append(names, r.Name)
	}
	if !reflect.DeepEqual(names, []string{"full", "name", "profile", "edition"}) {
		t.Errorf("card layout = %v", names)
	}

	stats, err := p.Layout(LayoutStats)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 || stats[0].Region.X != 0.22 {
		t.Errorf("stats layout = %+v", stats)
	}

	if _, err := p.Layout("menu"); err == nil {
		t.Error("expected error for unknown layout")
	}

	if r, err := p.FindRegion("stats"); err != nil || r.Threshold != 110 {
		t.Errorf("FindRegion(stats) = %+v, %v", r, err)
	}
	if _, err := p.FindRegion("badge"); err == nil {
		t.Error("expected error for unknown region")
	}
}

func TestDecode_Error(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	if !errors.Is(err, ErrDecodeImage) {
		t.Errorf("expected ErrDecodeImage, got %v", err)
	}
}

func TestSetConfig_AppliesToLaterCalls(t *testing.T) {
	engine := ocr.NewMockEngine("スピード 88")
	p := newPipeline(t, engine)

	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	for i := range cfg.Stats.Table {
		if cfg.Stats.Table[i].Key == string(extract.Speed) {
			cfg.Stats.Table[i].Aliases = []string{"Velocity"}
		}
	}
	if err := p.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}

	stats, err := p.ExtractStats(context.Background(), [][]byte{screenshot(t, 100, 100)})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stats[extract.Speed]; ok {
		t.Errorf("speed label was replaced, got %v", stats)
	}
	if p.Config() != cfg {
		t.Error("Config() does not return the new configuration")
	}
}

func TestMockTimeoutThroughPipeline(t *testing.T) {
	engine := &ocr.MockEngine{
		Script: []ocr.MockResponse{
			{Text: "スピード 70", Delay: 200 * time.Millisecond},
			{Text: "スピード 88"},
		},
		Timeout: 20 * time.Millisecond,
	}
	p := newPipeline(t, engine)

	stats, err := p.ExtractStats(context.Background(), [][]byte{screenshot(t, 100, 100), screenshot(t, 100, 100)})
	if err != nil {
		t.Fatalf("ExtractStats failed: %v", err)
	}
	if stats[extract.Speed] != 88 {
		t.Errorf("speed = %d, want 88 from the second image", stats[extract.Speed])
	}
}

func TestMissingStats_FollowsConfiguredTable(t *testing.T) {
	p := newPipeline(t, ocr.NewMockEngine())

	if got := p.MissingStats(extract.StatMap{}); len(got) != len(p.Config().Stats.Table) {
		t.Errorf("default table: %d missing, want %d", len(got), len(p.Config().Stats.Table))
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	var table []config.StatAlias
	for _, entry := range cfg.Stats.Table {
		switch extract.StatKey(entry.Key) {
		case extract.Speed, extract.Stamina, extract.Jump:
			table = append(table, entry)
		}
	}
	cfg.Stats.Table = table
	if err := p.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}

	got := p.MissingStats(extract.StatMap{extract.Stamina: 80})
	want := []extract.StatKey{}
	for _, entry := range table {
		if key := extract.StatKey(entry.Key); key != extract.Stamina {
			want = append(want, key)
		}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MissingStats = %v, want %v", got, want)
	}
}
