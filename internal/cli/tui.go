package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/nestlayout/pkg/layout/layered"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	tableHeadStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableFrameStyle = lipgloss.NewStyle().Foreground(colorDim)
)

var reportHeaders = []string{"", "Container", "Children", "Edges", "Flow", "Topology", "Tried", "Chosen", "Score"}

// containerName labels the root level.
func containerName(r layered.Report) string {
	if r.Container == "" {
		return "(root)"
	}
	return r.Container
}

// reportRow formats one report as a table row. The first column is left
// for the cursor.
func reportRow(r layered.Report) []string {
	chosen := r.Chosen
	switch {
	case r.Grid:
		chosen = "grid"
	case r.Retried:
		chosen += " (retry)"
	case chosen == "":
		chosen = "—"
	}
	score := "—"
	if r.Tried > 0 && !r.Grid {
		score = fmt.Sprintf("%.1f", r.Quality.Total)
	}
	return []string{
		"",
		containerName(r),
		fmt.Sprint(r.Children),
		fmt.Sprint(r.Edges),
		string(r.Direction),
		string(r.Kind),
		fmt.Sprint(r.Tried),
		chosen,
		score,
	}
}

// reportTable renders reports as a bordered table. cursor < 0 highlights
// nothing.
func reportTable(reports []layered.Report, cursor int) string {
	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = reportRow(r)
		if i == cursor {
			rows[i][0] = "▸"
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableFrameStyle).
		Headers(reportHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return tableHeadStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case row >= 0 && row < len(reports) && reports[row].Grid:
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// reportDetail renders the spacing, score breakdown and sizing of one
// container.
func reportDetail(r layered.Report) string {
	var b strings.Builder
	line := func(k, v string) {
		b.WriteString(detailKeyStyle.Render(k) + " " + StyleValue.Render(v) + "\n")
	}

	b.WriteString(StyleTitle.Render(containerName(r)) + "\n")
	line("Spacing", fmt.Sprintf("node %.0f · rank %.0f · edge %.0f", r.Spacing.NodeSep, r.Spacing.RankSep, r.Spacing.EdgeSep))
	if r.Tried > 0 && !r.Grid {
		q := r.Quality
		line("Crossings", fmt.Sprint(q.Crossings))
		line("Avg length", fmt.Sprintf("%.1f", q.AvgLength))
		line("Utilization", fmt.Sprintf("%.2f", q.Utilization))
	}
	if r.Grid {
		b.WriteString(StyleWarning.Render("every configuration failed; placed on a grid") + "\n")
	}
	if len(r.Duplicates) > 0 {
		b.WriteString(StyleWarning.Render("duplicate ids left in place: "+strings.Join(r.Duplicates, ", ")) + "\n")
	}
	if s := r.Sizing; s != nil {
		line("Size", fmt.Sprintf("%.0f × %.0f (aspect %.2f)", s.Width, s.Height, s.AspectRatio))
		var notes []string
		if s.Empty {
			notes = append(notes, "empty")
		}
		if s.MinApplied {
			notes = append(notes, "minimum applied")
		}
		if s.AspectAdjusted {
			notes = append(notes, "aspect adjusted")
		}
		if len(notes) > 0 {
			line("Sizing", strings.Join(notes, ", "))
		}
	}
	return b.String()
}

// =============================================================================
// ReportListModel - Interactive container browser
// =============================================================================

// ReportListModel is the bubbletea model of the inspect command.
type ReportListModel struct {
	Reports []layered.Report
	Cursor  int
	Height  int
	Offset  int
}

// NewReportListModel creates a new report list model.
func NewReportListModel(reports []layered.Report) ReportListModel {
	return ReportListModel{Reports: reports, Height: 12}
}

func (m ReportListModel) Init() tea.Cmd {
	return nil
}

func (m ReportListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Reports)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(0, len(m.Reports)-1)
			m.Offset = max(0, m.Cursor-m.Height+1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-16)
	}
	return m, nil
}

func (m ReportListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Containers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Reports) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to inspect\n"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Reports))
	b.WriteString(reportTable(m.Reports[m.Offset:end], m.Cursor-m.Offset))
	b.WriteString("\n\n")
	b.WriteString(reportDetail(m.Reports[m.Cursor]))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Reports))))

	return b.String()
}
