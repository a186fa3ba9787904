package ocr

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockResponse is one scripted Recognize outcome.
type MockResponse struct {
	Text  string
	Err   error
	Delay time.Duration
}

// MockEngine is an Engine for testing. Recognize calls across all sessions
// consume Script in order; once it is exhausted they return Fallback.
type MockEngine struct {
	Script   []MockResponse
	Fallback MockResponse

	// OpenErr, when set, is returned by Open for every language.
	OpenErr error

	// Timeout is applied to every session like the real engine does.
	Timeout time.Duration

	mu     sync.Mutex
	next   int
	calls  []string
	opened []string
	closed []string
}

// NewMockEngine creates a mock that answers with texts in order.
func NewMockEngine(texts ...string) *MockEngine {
	m := &MockEngine{}
	for _, text := range texts {
		m.Script = append(m.Script, MockResponse{Text: text})
	}
	return m
}

// Open starts a mock session.
func (m *MockEngine) Open(language string) (Session, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	m.mu.Lock()
	m.opened = append(m.opened, language)
	m.mu.Unlock()
	return &mockSession{engine: m, language: language, guard: newCallGuard(m.Timeout)}, nil
}

// Calls returns the language of every Recognize call so far.
func (m *MockEngine) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Opened returns the languages of every session opened so far.
func (m *MockEngine) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}

// Closed returns the languages of every session closed so far.
func (m *MockEngine) Closed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.closed...)
}

func (m *MockEngine) take(language string) MockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, language)
	if m.next < len(m.Script) {
		r := m.Script[m.next]
		m.next++
		return r
	}
	return m.Fallback
}

type mockSession struct {
	engine   *MockEngine
	language string
	guard    *callGuard
	closed   bool
}

func (s *mockSession) Recognize(ctx context.Context, png []byte) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	if len(png) == 0 {
		return "", fmt.Errorf("recognize %s: empty image", s.language)
	}
	r := s.engine.take(s.language)
	return s.guard.do(ctx, func() (string, error) {
		if r.Delay > 0 {
			time.Sleep(r.Delay)
		}
		return r.Text, r.Err
	})
}

func (s *mockSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.guard.wait()
	s.engine.mu.Lock()
	s.engine.closed = append(s.engine.closed, s.language)
	s.engine.mu.Unlock()
	return nil
}
