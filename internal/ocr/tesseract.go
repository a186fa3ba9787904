package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig configures the Tesseract engine.
type TesseractConfig struct {
	// TessdataPrefix overrides the traineddata directory. Empty uses
	// TESSDATA_PREFIX or the system default.
	TessdataPrefix string

	// PageSegMode is passed to Tesseract when positive. Zero keeps the
	// library default.
	PageSegMode int

	// Timeout bounds each Recognize call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Tesseract is an Engine backed by the Tesseract library through gosseract.
type Tesseract struct {
	cfg TesseractConfig
}

// NewTesseract creates a Tesseract engine. No native resources are held until
// a session is opened.
func NewTesseract(cfg TesseractConfig) *Tesseract {
	return &Tesseract{cfg: cfg}
}

// Open creates a session for language, e.g. "eng" or "jpn+eng". Missing
// traineddata for any component language yields ErrRecognitionUnavailable.
func (t *Tesseract) Open(language string) (Session, error) {
	langs := splitLanguage(language)
	if len(langs) == 0 {
		return nil, fmt.Errorf("%w: no language given", ErrRecognitionUnavailable)
	}

	// An explicit prefix is authoritative; the system listing may be empty
	// when traineddata lives somewhere the library still finds.
	if installed, err := t.Languages(); err == nil && (len(installed) > 0 || t.cfg.TessdataPrefix != "") {
		for _, lang := range langs {
			if !contains(installed, lang) {
				return nil, fmt.Errorf("%w: traineddata for %q not installed", ErrRecognitionUnavailable, lang)
			}
		}
	}

	client := gosseract.NewClient()
	if t.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: set tessdata prefix: %v", ErrRecognitionUnavailable, err)
		}
	}
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: set language: %v", ErrRecognitionUnavailable, err)
	}
	if t.cfg.PageSegMode > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(t.cfg.PageSegMode)); err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: set page segmentation mode: %v", ErrRecognitionUnavailable, err)
		}
	}

	return &tesseractSession{
		client:   client,
		language: language,
		guard:    newCallGuard(t.cfg.Timeout),
	}, nil
}

// Languages lists the installed traineddata, sorted.
func (t *Tesseract) Languages() ([]string, error) {
	if t.cfg.TessdataPrefix == "" {
		langs, err := gosseract.GetAvailableLanguages()
		if err != nil {
			return nil, fmt.Errorf("list languages: %w", err)
		}
		sort.Strings(langs)
		return langs, nil
	}

	files, err := filepath.Glob(filepath.Join(t.cfg.TessdataPrefix, "*.traineddata"))
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	langs := make([]string, 0, len(files))
	for _, f := range files {
		langs = append(langs, strings.TrimSuffix(filepath.Base(f), ".traineddata"))
	}
	sort.Strings(langs)
	return langs, nil
}

// Info describes the recognition backend.
type Info struct {
	Backend        string   `json:"backend" yaml:"backend"`
	Version        string   `json:"version" yaml:"version"`
	TessdataPrefix string   `json:"tessdata_prefix,omitempty" yaml:"tessdata_prefix,omitempty"`
	Languages      []string `json:"languages" yaml:"languages"`
	Timeout        string   `json:"timeout" yaml:"timeout"`
}

// Info reports the library version and installed languages.
func (t *Tesseract) Info() (*Info, error) {
	client := gosseract.NewClient()
	defer client.Close()

	langs, err := t.Languages()
	if err != nil {
		return nil, err
	}

	prefix := t.cfg.TessdataPrefix
	if prefix == "" {
		prefix = os.Getenv("TESSDATA_PREFIX")
	}
	timeout := t.cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Info{
		Backend:        "tesseract",
		Version:        client.Version(),
		TessdataPrefix: prefix,
		Languages:      langs,
		Timeout:        timeout.String(),
	}, nil
}

type tesseractSession struct {
	client   *gosseract.Client
	language string
	guard    *callGuard
}

func (s *tesseractSession) Recognize(ctx context.Context, png []byte) (string, error) {
	if s.client == nil {
		return "", ErrSessionClosed
	}
	return s.guard.do(ctx, func() (string, error) {
		if err := s.client.SetImageFromBytes(png); err != nil {
			return "", fmt.Errorf("set image: %w", err)
		}
		text, err := s.client.Text()
		if err != nil {
			if strings.Contains(err.Error(), "initialize") {
				return "", fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
			}
			return "", fmt.Errorf("recognize %s: %w", s.language, err)
		}
		return text, nil
	})
}

func (s *tesseractSession) Close() error {
	if s.client == nil {
		return nil
	}
	s.guard.wait()
	err := s.client.Close()
	s.client = nil
	return err
}

func splitLanguage(language string) []string {
	var langs []string
	for _, part := range strings.Split(language, "+") {
		if part = strings.TrimSpace(part); part != "" {
			langs = append(langs, part)
		}
	}
	return langs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
