package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	nlerrors "github.com/matzehuels/nestlayout/pkg/errors"
	"github.com/matzehuels/nestlayout/pkg/layout"
)

func parseOptionFlags(t *testing.T, args ...string) (layout.Options, error) {
	t.Helper()
	var f optionFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error: %v", args, err)
	}
	return f.resolve()
}

func writePreset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preset.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOptionFlagsResolve(t *testing.T) {
	opts, err := parseOptionFlags(t, "-a", "compound", "-d", "left", "--padding", "24", "--parallel", "--search-timeout", "2s")
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if opts.Algorithm != layout.AlgorithmCompound {
		t.Errorf("Algorithm = %q, want %q", opts.Algorithm, layout.AlgorithmCompound)
	}
	if opts.Direction != layout.DirectionLeft {
		t.Errorf("Direction = %q, want %q", opts.Direction, layout.DirectionLeft)
	}
	if opts.Padding() != 24 {
		t.Errorf("Padding() = %v, want 24", opts.Padding())
	}
	if !opts.Parallel {
		t.Error("Parallel = false, want true")
	}
	if opts.SearchTimeout != 2*time.Second {
		t.Errorf("SearchTimeout = %v, want 2s", opts.SearchTimeout)
	}
	if opts.AutoResize != nil {
		t.Errorf("AutoResize = %v, want unset", *opts.AutoResize)
	}
}

func TestOptionFlagsNoAutoResize(t *testing.T) {
	opts, err := parseOptionFlags(t, "--no-auto-resize")
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if opts.AutoResize == nil || *opts.AutoResize {
		t.Errorf("AutoResize = %v, want false", opts.AutoResize)
	}
}

func TestOptionFlagsZeroPadding(t *testing.T) {
	path := writePreset(t, "boundaryPadding = 30\n")

	tests := []struct {
		name string
		args []string
		want float64
	}{
		{"unset", nil, layout.DefaultBoundaryPadding},
		{"explicit zero", []string{"--padding", "0"}, 0},
		{"preset", []string{"-c", path}, 30},
		{"zero over preset", []string{"-c", path, "--padding", "0"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptionFlags(t, tt.args...)
			if err != nil {
				t.Fatalf("resolve() error: %v", err)
			}
			if got := opts.Padding(); got != tt.want {
				t.Errorf("Padding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptionFlagsPreset(t *testing.T) {
	path := writePreset(t, `
direction = "right"
boundaryPadding = 30
minBoundaryWidth = 400
`)

	opts, err := parseOptionFlags(t, "-c", path, "--padding", "10")
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if opts.Direction != layout.DirectionRight {
		t.Errorf("Direction = %q, want preset value %q", opts.Direction, layout.DirectionRight)
	}
	if opts.Padding() != 10 {
		t.Errorf("Padding() = %v, want flag value 10", opts.Padding())
	}
	if opts.MinBoundaryWidth != 400 {
		t.Errorf("MinBoundaryWidth = %v, want preset value 400", opts.MinBoundaryWidth)
	}
}

func TestOptionFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
	}{
		{"bad direction", func(*testing.T) []string { return []string{"-d", "sideways"} }},
		{"bad algorithm", func(*testing.T) []string { return []string{"-a", "force"} }},
		{"bad alignment", func(*testing.T) []string { return []string{"--alignment", "middle"} }},
		{"negative padding", func(*testing.T) []string { return []string{"--padding=-5"} }},
		{"missing preset", func(t *testing.T) []string {
			return []string{"-c", filepath.Join(t.TempDir(), "missing.toml")}
		}},
		{"unknown preset key", func(t *testing.T) []string {
			return []string{"-c", writePreset(t, "nodeSpaceing = 40\n")}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseOptionFlags(t, tt.args(t)...)
			if err == nil {
				t.Fatal("resolve() expected error")
			}
			if !nlerrors.Is(err, nlerrors.ErrCodeInvalidOptions) {
				t.Errorf("resolve() error = %v, want INVALID_OPTIONS", err)
			}
		})
	}
}
