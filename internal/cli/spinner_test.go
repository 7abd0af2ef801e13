package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinnerOn(context.Background(), &buf, true, "Computing layout...")
	time.Sleep(3 * spinnerInterval)
	s.stop()

	out := buf.String()
	if !strings.Contains(out, "Computing layout...") {
		t.Errorf("output %q missing message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q does not end with a cleared line", out)
	}
}

func TestSpinnerNotAnimated(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinnerOn(context.Background(), &buf, false, "quiet")
	time.Sleep(2 * spinnerInterval)
	s.stop()
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}

func TestSpinnerStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval/2)
	defer cancel()

	s := startSpinnerOn(ctx, &bytes.Buffer{}, true, "timeout")
	select {
	case <-s.exited:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after context ended")
	}
	s.stop()
}

func TestSpinnerStopTwice(t *testing.T) {
	s := startSpinnerOn(context.Background(), &bytes.Buffer{}, true, "twice")
	s.stop()
	s.stop()
}

func TestSpinnerFail(t *testing.T) {
	var out bytes.Buffer
	prev := stdout
	stdout = &out
	t.Cleanup(func() { stdout = prev })

	s := startSpinnerOn(context.Background(), &bytes.Buffer{}, false, "x")
	s.fail("Layout failed")
	if !strings.Contains(out.String(), "Layout failed") {
		t.Errorf("stdout = %q, want failure message", out.String())
	}
}

func TestSpinnerFrameCycles(t *testing.T) {
	s := &spinner{message: "m"}
	if s.frame(0) != s.frame(len(spinnerFrames)) {
		t.Error("frame sequence does not wrap")
	}
	if !strings.Contains(s.frame(3), spinnerFrames[3]) {
		t.Errorf("frame(3) = %q, want glyph %q", s.frame(3), spinnerFrames[3])
	}
}
