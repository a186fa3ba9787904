package ocr

import (
	"context"
	"errors"
	"time"
)

type callResult struct {
	text string
	err  error
}

// callGuard runs backend calls one at a time with a time limit. A call that
// overruns is left to finish in the background; the next call and Close wait
// for it so the backend is never entered twice.
type callGuard struct {
	timeout time.Duration
	pending chan struct{}
}

func newCallGuard(timeout time.Duration) *callGuard {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &callGuard{timeout: timeout}
}

// settle waits for an overrunning call, giving up when ctx ends.
func (g *callGuard) settle(ctx context.Context) error {
	if g.pending == nil {
		return nil
	}
	select {
	case <-g.pending:
		g.pending = nil
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// wait blocks until an overrunning call returns.
func (g *callGuard) wait() {
	if g.pending != nil {
		<-g.pending
		g.pending = nil
	}
}

// do runs fn within the guard's time limit. Time spent waiting for an earlier
// overrunning call counts against that limit.
func (g *callGuard) do(ctx context.Context, fn func() (string, error)) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.settle(callCtx); err != nil {
		return "", g.timeoutOr(ctx, err)
	}

	done := make(chan struct{})
	results := make(chan callResult, 1)
	go func() {
		defer close(done)
		text, err := fn()
		results <- callResult{text: text, err: err}
	}()

	select {
	case r := <-results:
		<-done
		return r.text, r.err
	case <-callCtx.Done():
		g.pending = done
		return "", g.timeoutOr(ctx, callCtx.Err())
	}
}

// timeoutOr maps a call deadline to ErrRecognitionTimeout and anything else to
// the parent context's error.
func (g *callGuard) timeoutOr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return ErrRecognitionTimeout
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
