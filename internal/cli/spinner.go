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

var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a progress message on a terminal line until stopped or
// until its context ends. It draws nothing when the writer is not a
// terminal, so piped stderr stays clean.
type spinner struct {
	w       io.Writer
	message string
	quit    chan struct{}
	exited  chan struct{}
	once    sync.Once
}

// startSpinner starts animating message on stderr.
func startSpinner(ctx context.Context, message string) *spinner {
	return startSpinnerOn(ctx, os.Stderr, isTerminal(os.Stderr), message)
}

func startSpinnerOn(ctx context.Context, w io.Writer, animate bool, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		quit:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	if !animate {
		close(s.exited)
		return s
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-s.quit:
			s.clear()
			return
		case <-tick.C:
			fmt.Fprintf(s.w, "\r%s", s.frame(n))
		}
	}
}

func (s *spinner) frame(n int) string {
	glyph := spinnerFrames[n%len(spinnerFrames)]
	return styleSpinner.Render(glyph) + " " + StyleDim.Render(s.message)
}

func (s *spinner) clear() {
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}

// stop ends the animation and waits for the line to be cleared. It is safe
// to call more than once.
func (s *spinner) stop() {
	s.once.Do(func() { close(s.quit) })
	<-s.exited
}

// fail stops the spinner and reports message as an error.
func (s *spinner) fail(message string) {
	s.stop()
	printError("%s", message)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
