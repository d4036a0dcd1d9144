package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn,gocyclo,cyclop // one case per message type
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.mode {
		case modeJump:
			m, cmd = m.handleJumpKey(x)
		case modeSearch:
			m, cmd = m.handleSearchKey(x)
		default:
			m, cmd = m.handleKey(x)
		}
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m, cmd = m.handleMouse(x)
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(x)
		return m, cmd

	case loadedMsg:
		cmd := m.applyLoaded(x)
		return m, cmd

	case reloadMsg:
		return m, tea.Batch(m.load(true), m.listenForReload())

	case frameMsg:
		now := time.Time(x)
		dt := m.frameInterval.Seconds()
		if !m.lastFrame.IsZero() {
			dt = now.Sub(m.lastFrame).Seconds()
		}
		m.lastFrame = now
		m.view.Tick(dt)
		if m.view.Animating() {
			return m, m.nextFrame()
		}
		m.ticking = false
		m.lastFrame = time.Time{}
		return m, nil

	case statusMsg:
		cmd := m.setStatus(x.Text)
		return m, tea.Batch(cmd, m.listenForStatus())

	case clearStatusMsg:
		if x.Set.Equal(m.statusAt) {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}
