// Package statsui provides the Bubble Tea tally browser.
package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/scoretally/internal/stats"
)

type sortMode int

const (
	sortName sortMode = iota
	sortFirstSeen
	sortTotal
)

func (s sortMode) String() string {
	switch s {
	case sortFirstSeen:
		return "first-seen"
	case sortTotal:
		return "total"
	default:
		return "name"
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
)

// Model implements the Bubble Tea tally browser.
type Model struct {
	source string
	tally  *stats.Tally
	mode   sortMode

	names []string
	table table.Model

	width  int
	height int
}

// NewModel constructs a browser over an aggregated tally.
func NewModel(source string, tally *stats.Tally, order stats.Order) *Model {
	m := &Model{
		source: source,
		tally:  tally,
		mode:   sortName,
	}
	if order == stats.OrderFirstSeen {
		m.mode = sortFirstSeen
	}
	m.table = table.New(
		table.WithColumns(tableColumns()),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	m.table.SetStyles(tableStyles())
	m.refreshRows()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "o":
			if m.mode == sortName {
				m.mode = sortFirstSeen
			} else {
				m.mode = sortName
			}
			m.refreshRows()
			return m, nil
		case "t":
			m.mode = sortTotal
			m.refreshRows()
			return m, nil
		case "g", "home":
			m.table.GotoTop()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.table.View(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// SelectedName returns the name under the cursor.
func (m *Model) SelectedName() (string, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.names) {
		return "", false
	}
	return m.names[idx], true
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(m.renderHeader())
	footerHeight = 2
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	_, bodyHeight, _ := m.layoutHeights()
	m.table.SetWidth(m.width)
	// One line of the table view is its header.
	m.table.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) refreshRows() {
	switch m.mode {
	case sortTotal:
		m.names = stats.TopByTotal(m.tally, m.tally.Len())
	case sortFirstSeen:
		m.names = m.tally.Names(stats.OrderFirstSeen)
	default:
		m.names = m.tally.Names(stats.OrderName)
	}
	m.table.SetRows(buildRows(m.tally, m.names))
	m.table.GotoTop()
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render("scoretally")
	info := fmt.Sprintf("Source: %s  People: %d  Sort: %s", m.source, m.tally.Len(), m.mode)
	info = truncateLine(info, m.width)
	return padLines(title, m.width) + "\n" + headerStyle.Render(info)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Scroll: up/down  Order: o  By total: t  Top/Bottom: g/G  Quit: q")
	name, ok := m.SelectedName()
	if !ok {
		return help
	}
	ps, _ := m.tally.Get(name)
	line := truncateLine(stats.SummaryLine(name, ps), m.width)
	return summaryStyle.Render(line) + "\n" + help
}

func tableColumns() []table.Column {
	return []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Completed", Width: 9},
		{Title: "Missed", Width: 6},
		{Title: "Total", Width: 10},
	}
}

func buildRows(tally *stats.Tally, names []string) []table.Row {
	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		ps, _ := tally.Get(name)
		rows = append(rows, table.Row{
			stats.DisplayName(name),
			strconv.FormatInt(ps.TestsCompleted, 10),
			strconv.FormatInt(ps.TestsMissed, 10),
			strconv.FormatInt(ps.Total, 10),
		})
	}
	return rows
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
