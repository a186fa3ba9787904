package ocr

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTimeout bounds a single Recognize call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

var (
	// ErrRecognitionUnavailable means the backend could not be initialized or
	// the requested language data is not installed.
	ErrRecognitionUnavailable = errors.New("text recognition unavailable")

	// ErrRecognitionTimeout means a Recognize call exceeded its time limit.
	ErrRecognitionTimeout = errors.New("text recognition timed out")

	// ErrSessionClosed is returned by Recognize after Close.
	ErrSessionClosed = errors.New("recognition session closed")
)

// Engine opens recognition sessions. An engine lives for the whole process and
// may be shared; sessions may not.
type Engine interface {
	// Open starts a session for a Tesseract language string such as "eng"
	// or "jpn+eng".
	Open(language string) (Session, error)
}

// Session recognizes text in PNG-encoded images for one language setting.
// A session is used by one goroutine at a time.
type Session interface {
	Recognize(ctx context.Context, png []byte) (string, error)
	Close() error
}

// Batch owns the sessions used while processing one card or one set of stat
// screenshots. At most one live session is kept per language, opened on first
// use. Close must be called on every exit path.
//
// A session whose call timed out may still be busy inside the backend. The
// batch retires it: the next call for that language opens a fresh session,
// and the retired one is closed in the background once its call returns.
type Batch struct {
	engine   Engine
	sessions map[string]Session
	order    []string
	retired  int
	closed   bool
}

// NewBatch creates an empty batch backed by engine.
func NewBatch(engine Engine) *Batch {
	return &Batch{
		engine:   engine,
		sessions: make(map[string]Session),
	}
}

// Recognize runs png through the session for language, opening it if needed.
func (b *Batch) Recognize(ctx context.Context, language string, png []byte) (string, error) {
	if b.closed {
		return "", ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	session, ok := b.sessions[language]
	if !ok {
		var err error
		session, err = b.engine.Open(language)
		if err != nil {
			return "", fmt.Errorf("open %q session: %w", language, err)
		}
		if !contains(b.order, language) {
			b.order = append(b.order, language)
		}
		b.sessions[language] = session
	}

	text, err := session.Recognize(ctx, png)
	if errors.Is(err, ErrRecognitionTimeout) {
		b.retire(language, session)
	}
	return text, err
}

func (b *Batch) retire(language string, session Session) {
	delete(b.sessions, language)
	b.retired++
	go func() {
		_ = session.Close()
	}()
}

// Languages returns the languages used so far, in order of first use.
func (b *Batch) Languages() []string {
	return append([]string(nil), b.order...)
}

// Retired returns how many sessions were dropped after a timeout.
func (b *Batch) Retired() int {
	return b.retired
}

// Close closes every open session. It is safe to call more than once.
func (b *Batch) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, language := range b.order {
		session, ok := b.sessions[language]
		if !ok {
			continue
		}
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q session: %w", language, err))
		}
	}
	b.sessions = nil
	return errors.Join(errs...)
}
