package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	focusScale = 0.9
	nearScale  = 0.6
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHeader(m))
	b.WriteString("\n")

	switch {
	case m.loadErr != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗ " + m.loadErr.Error()))
	case m.loading:
		b.WriteString(m.spinner.View())
		b.WriteString(" loading ")
		b.WriteString(m.title())
	case m.mode == modeSearch:
		b.WriteString(m.search.View())
	default:
		b.WriteString(renderCanvas(m))
	}
	b.WriteString("\n")

	b.WriteString(renderProgress(m))
	b.WriteString("\n")
	if m.mode == modeJump {
		b.WriteString(m.jump.View())
	} else {
		b.WriteString(renderStatus(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return m.zone.Scan(b.String())
}

func (m Model) title() string {
	if m.opts.Title != "" {
		return m.opts.Title
	}
	if m.board.src != nil {
		return m.board.src.Name()
	}
	return "reel"
}

func renderHeader(m Model) string {
	title := lipgloss.NewStyle().Bold(true).Render(m.title())
	if !m.ready() {
		return title
	}
	pos := fmt.Sprintf("%d / ∞", m.view.CenterIndex())
	if m.view.Finite() {
		pos = fmt.Sprintf("%d / %d", m.view.CenterIndex()+1, m.view.TotalCount())
	}
	pos = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(pos)
	pad := max(m.board.cols-lipgloss.Width(title)-lipgloss.Width(pos), 1)
	return title + strings.Repeat(" ", pad) + pos
}

// renderCanvas draws the cards on their rows. Each card is marked as a click
// zone keyed by its handle.
func renderCanvas(m Model) string {
	lines := make([]string, m.board.rows)
	for _, p := range m.board.layout() {
		text := truncate(p.card.text, p.width)
		styled := cardStyle(p.card, p.width).Render(text)
		lines[p.row] = strings.Repeat(" ", p.col) + m.zone.Mark(p.card.id.String(), styled)
	}
	return strings.Join(lines, "\n")
}

func cardStyle(c *card, width int) lipgloss.Style {
	style := lipgloss.NewStyle().Width(width).MaxWidth(width).Align(lipgloss.Center)
	scale := c.transform.Scale
	switch {
	case c.selected:
		return style.Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("69"))
	case scale >= focusScale:
		return style.Bold(true)
	case scale >= nearScale:
		return style.Foreground(lipgloss.Color("252"))
	default:
		return style.Foreground(lipgloss.Color("241"))
	}
}

// renderProgress shows the position within a finite list.
func renderProgress(m Model) string {
	if !m.ready() || !m.view.Finite() {
		return ""
	}
	total := m.view.TotalCount()
	pct := 1.0
	if total > 1 {
		pct = float64(m.view.CenterIndex()) / float64(total-1)
	}
	return m.progress.ViewAs(min(max(pct, 0), 1))
}

func renderStatus(status string) string {
	if status == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Render("⚠ " + status)
}
