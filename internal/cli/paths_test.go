package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	tests := []struct {
		name     string
		xdg      string
		override string
		want     string
	}{
		{"home default", "", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/var/cache/custom", "", filepath.Join("/var/cache/custom", appName)},
		{"explicit", "/var/cache/custom", "/srv/layouts", "/srv/layouts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			t.Setenv("NESTLAYOUT_CACHE_DIR", tt.override)

			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			root := New(&bytes.Buffer{}, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("completion %s output does not mention %s", shell, appName)
			}
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})
	if err := root.Execute(); err == nil {
		t.Error("completion tcsh: want error")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	t.Setenv("NESTLAYOUT_CACHE_DIR", t.TempDir())
	prev := stdout
	var printed bytes.Buffer
	stdout = &printed
	t.Cleanup(func() { stdout = prev })

	run := func(args ...string) string {
		t.Helper()
		root := New(&bytes.Buffer{}, LogInfo).RootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs(args)
		printed.Reset()
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String() + printed.String()
	}

	dir, _ := cacheDir()
	if got := run("cache", "path"); strings.TrimSpace(got) != dir {
		t.Errorf("cache path = %q, want %q", got, dir)
	}

	fc, err := openFileCache()
	if err != nil {
		t.Fatal(err)
	}
	_ = fc.Set(t.Context(), "a", []byte("x"), 0)
	_ = fc.Set(t.Context(), "b", []byte("y"), 0)

	if got := run("cache", "info"); !strings.Contains(got, "Entries") || !strings.Contains(got, "2") {
		t.Errorf("cache info = %q, want 2 entries", got)
	}
	if got := run("cache", "clear"); !strings.Contains(got, "Removed 2 cached layouts") {
		t.Errorf("cache clear = %q", got)
	}
	if got := run("cache", "clear"); !strings.Contains(got, "Cache is empty") {
		t.Errorf("second cache clear = %q", got)
	}
}
