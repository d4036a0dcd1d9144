package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// searchItem is the list item backing one entry of the search overlay.
type searchItem struct {
	Index int
	Text  string
}

// List item interface methods.
func (it searchItem) Title() string       { return it.Text }
func (it searchItem) Description() string { return "" }
func (it searchItem) FilterValue() string { return it.Text }

// searchDelegate renders searchItem rows with the index right-justified.
type searchDelegate struct{}

func (d searchDelegate) Height() int                             { return 1 }
func (d searchDelegate) Spacing() int                            { return 0 }
func (d searchDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d searchDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(searchItem)
	if !ok {
		return
	}
	selected := index == m.Index()
	leftPrefix := "  "
	lineStyle := lipgloss.NewStyle()
	if selected {
		leftPrefix = "> "
		lineStyle = lineStyle.Foreground(lipgloss.Color("69")).Bold(true)
	}

	right := fmt.Sprintf("#%d", it.Index)
	available := m.Width() - lipgloss.Width(leftPrefix) - lipgloss.Width(right) - 1
	left := leftPrefix + truncate(it.Text, max(available, 1))

	padding := max(m.Width()-lipgloss.Width(left)-lipgloss.Width(right), 1)
	_, _ = fmt.Fprint(w, lineStyle.Render(left+spaces(padding)+right))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(n).Render("")
}

// truncate shortens s to at most width cells, marking the cut with an
// ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 1 {
		return string(runes[:min(max(width, 0), len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
