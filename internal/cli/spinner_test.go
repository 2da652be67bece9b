package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerCountsDirectories(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering directories", 3)
	s.Start()

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Advance()
		}()
	}
	wg.Wait()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if s.Finished() != 2 {
		t.Errorf("Finished = %d, want 2", s.Finished())
	}
	got := out.String()
	for _, want := range []string{"Rendering directories 0/3", "Rendering directories 2/3"} {
		if !strings.Contains(got, want) {
			t.Errorf("output misses %q:\n%q", want, got)
		}
	}
	if !strings.HasSuffix(got, "\r") {
		t.Error("Stop did not clear the status line")
	}
}

func TestSpinnerWithoutTotal(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering src/app...", 0)
	s.Start()
	s.Advance()
	s.Stop()
	if got := out.String(); !strings.Contains(got, "Rendering src/app...") || strings.Contains(got, "/0") {
		t.Errorf("output = %q", got)
	}
}

func TestSpinnerStop(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Rendering...", 0)
	s.Start()
	s.Stop()
	s.Stop()
	if !s.Cancelled() {
		t.Error("Stop should cancel the spinner context")
	}

	// Stopping a spinner that never started writes nothing.
	var idle syncBuffer
	newSpinnerTo(context.Background(), &idle, "idle", 1).Stop()
	if idle.String() != "" {
		t.Errorf("unstarted spinner wrote %q", idle.String())
	}
}

func TestSpinnerContextCancellation(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			var out syncBuffer
			s := newSpinnerTo(ctx, &out, "Rendering...", 0)
			s.Start()
			time.Sleep(100 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should be cancelled with its parent context")
			}
			s.Stop()
		})
	}
}
