package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/nestlayout/pkg/layout"
)

// Terminal palette (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders values next to labels.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
	separator  = " · "
)

// status is a kind of one-line message, rendered as a coloured marker
// followed by the text.
type status struct {
	marker string
	style  lipgloss.Style
	body   func(string) string
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGreen), nil}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorRed), nil}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorYellow), func(s string) string { return StyleWarning.Render(s) }}
	statusNote = status{"›", lipgloss.NewStyle().Foreground(colorGray), nil}
)

// stdout receives all human-readable command output. Tests swap it.
var stdout io.Writer = os.Stdout

func (s status) line(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if s.body != nil {
		msg = s.body(msg)
	}
	return s.style.Render(s.marker) + " " + msg
}

func (s status) print(format string, args ...any) {
	fmt.Fprintln(stdout, s.line(format, args...))
}

func printSuccess(format string, args ...any) { statusOK.print(format, args...) }
func printError(format string, args ...any)   { statusFail.print(format, args...) }
func printWarning(format string, args ...any) { statusWarn.print(format, args...) }
func printInfo(format string, args ...any)    { statusNote.print(format, args...) }

// printDetail prints an indented, dimmed line under a status message.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written output file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

func printStats(s layout.Stats, edgeCount int) {
	fmt.Fprintln(stdout, statsLine(s, edgeCount))
}

// statsLine summarises a layout run: engine, sizes, fallbacks, timing and
// whether the result came from the cache. Zero counts other than nodes and
// time are omitted.
func statsLine(s layout.Stats, edgeCount int) string {
	parts := make([]string, 0, 7)
	add := func(cond bool, format string, v any) {
		if cond {
			parts = append(parts, StyleDim.Render(fmt.Sprintf(format, v)))
		}
	}
	add(s.Engine != "", "%s", s.Engine)
	add(true, "%d nodes", s.TotalNodes)
	add(edgeCount > 0, "%d edges", edgeCount)
	add(s.BoundariesProcessed > 0, "%d boundaries", s.BoundariesProcessed)
	add(s.FallbacksUsed > 0, "%d grid fallbacks", s.FallbacksUsed)
	add(true, "%dms", s.ProcessingTimeMs)

	if s.CacheHit {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render(iconCached))
	} else {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGray).Render(iconFresh))
	}
	return "  " + strings.Join(parts, StyleDim.Render(separator))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }
