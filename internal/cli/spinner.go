package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerFrames = []rune("⣾⣽⣻⢿⡿⣟⣯⣷")

// Spinner animates a status line on stderr while graphs render. When a
// total is set, the line also counts finished directories as "done/total".
type Spinner struct {
	w      io.Writer
	label  string
	total  int
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	finished int
	width    int

	once    sync.Once
	started bool
	stopped chan struct{}
}

// newSpinner creates a spinner for label that stops with ctx. A total of zero
// hides the counter.
func newSpinner(ctx context.Context, label string, total int) *Spinner {
	return newSpinnerTo(ctx, os.Stderr, label, total)
}

func newSpinnerTo(ctx context.Context, w io.Writer, label string, total int) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		label:   label,
		total:   total,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start draws the first frame and animates until Stop or cancellation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.draw(0)
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for frame := 1; ; frame++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.mu.Lock()
				s.draw(frame)
				s.mu.Unlock()
			}
		}
	}()
}

// Advance counts one more finished directory. It is safe for concurrent use.
func (s *Spinner) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished++
}

// Finished reports how many directories were counted.
func (s *Spinner) Finished() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// draw writes one frame. s.mu must be held.
func (s *Spinner) draw(frame int) {
	icon := string(spinnerFrames[frame%len(spinnerFrames)])
	text := s.label
	if s.total > 0 {
		text = fmt.Sprintf("%s %d/%d", s.label, s.finished, s.total)
	}
	line := styleIconSpinner.Render(icon) + " " + StyleDim.Render(text)
	s.width = max(s.width, len(icon)+1+len(text))
	fmt.Fprintf(s.w, "\r%s", line)
}

// Stop ends the animation and clears the status line. Repeated calls are
// no-ops.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if !started {
			return
		}
		<-s.stopped
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.mu.Unlock()
	})
}

// StopWithSuccess stops the spinner and prints message as a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints message as an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context is done.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
