package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/sortscope/internal/access"
	"github.com/Iron-Ham/sortscope/internal/errors"
	"github.com/Iron-Ham/sortscope/internal/util"
)

// Layout constants
const (
	minChartHeight = 4
	// header (2) + status (1) + help (1) + chart border (2)
	chromeHeight = 6
	// chart border (2) + chart padding (2)
	chromeWidth = 4

	barGlyph = "█"
)

// View renders the model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderChart(),
		m.renderStatus(),
	}
	if m.showHelp {
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	s := m.styles
	cfg := m.sess.Config()
	progress := m.sess.Progress()

	place := "-"
	if progress.Digits > 0 {
		place = fmt.Sprintf("%d/%d", progress.Place, progress.Digits)
	}

	parts := []string{
		s.Title.Render("sortscope"),
		s.Label.Render("run ") + s.Value.Render(util.TruncateString(m.sess.ID(), 11)),
		s.Label.Render("radix ") + s.Value.Render(fmt.Sprint(cfg.Radix)),
		s.Label.Render("n ") + s.Value.Render(fmt.Sprint(m.mirror.Len())),
		s.Label.Render("place ") + s.Value.Render(place),
	}
	return s.Header.Render(util.TruncateANSI(strings.Join(parts, "  "), m.width))
}

func (m Model) renderStatus() string {
	s := m.styles
	stats := m.channelStats()

	var state string
	switch {
	case m.finished && m.err != nil:
		state = s.Error.Render("failed: " + errors.UserMessage(m.err))
	case m.finished:
		state = s.Success.Render("sorted")
	case m.paused:
		state = s.Muted.Render("paused")
	default:
		state = s.Value.Render("sorting")
	}

	parts := []string{
		util.PadANSI(state, len("sorting")),
		s.BarRead.Render("reads ") + s.Value.Render(util.FormatCount(m.mirror.Reads())),
		s.BarWrite.Render("writes ") + s.Value.Render(util.FormatCount(m.mirror.Writes())),
		s.Label.Render("pending ") + s.Value.Render(util.FormatCount(stats.Pending)),
		s.Label.Render("batch ") + s.Value.Render(fmt.Sprint(m.last)),
	}
	if gaps := m.mirror.Gaps(); gaps > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("gaps %d", gaps)))
	}
	return util.TruncateANSI(strings.Join(parts, "  "), m.width)
}

// column is one drawn bar, possibly standing for several elements.
type column struct {
	value   int
	touched access.Op
	marked  bool
}

// columns groups the mirrored elements into at most width columns. A column
// shows the largest value of its group and the strongest access touching it.
func (m Model) columns(width int) []column {
	values := m.mirror.Values()
	if len(values) == 0 || width <= 0 {
		return nil
	}
	touched := m.mirror.Touched()

	group := (len(values) + width - 1) / width
	cols := make([]column, 0, (len(values)+group-1)/group)
	for start := 0; start < len(values); start += group {
		var c column
		for i := start; i < min(start+group, len(values)); i++ {
			if values[i].Valid && values[i].V > c.value {
				c.value = values[i].V
			}
			if op, ok := touched[i]; ok && (!c.marked || op == access.OpWrite) {
				c.touched, c.marked = op, true
			}
		}
		cols = append(cols, c)
	}
	return cols
}

func (m Model) renderChart() string {
	s := m.styles
	width := max(m.width-chromeWidth, 1)
	height := max(m.height-chromeHeight, minChartHeight)

	cols := m.columns(width)
	if len(cols) == 0 {
		return s.Chart.Width(width).Render(s.Muted.Render("(empty array)"))
	}

	// Leave a gap between bars when there is room for it.
	gap := ""
	if len(cols)*2 <= width {
		gap = " "
	}

	maxValue := m.mirror.Max()
	heights := make([]int, len(cols))
	for i, c := range cols {
		heights[i] = util.Scale(c.value, maxValue, height)
	}

	rows := make([]string, height)
	for r := 0; r < height; r++ {
		level := height - r
		var row strings.Builder
		for i, c := range cols {
			cell := " "
			if heights[i] >= level {
				cell = m.cellStyle(c).Render(barGlyph)
			}
			row.WriteString(cell)
			row.WriteString(gap)
		}
		rows[r] = row.String()
	}
	return s.Chart.Render(strings.Join(rows, "\n"))
}

func (m Model) cellStyle(c column) lipgloss.Style {
	switch {
	case !c.marked:
		if m.finished && m.err == nil {
			return m.styles.Success
		}
		return m.styles.Bar
	case c.touched == access.OpWrite:
		return m.styles.BarWrite
	default:
		return m.styles.BarRead
	}
}
