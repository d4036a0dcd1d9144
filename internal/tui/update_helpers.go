package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// handleKey processes key bindings and returns updated model and command.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn,gocyclo,cyclop // one case per binding
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	if !m.ready() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		return m.stepBy(-1)
	case key.Matches(msg, m.keys.Down):
		return m.stepBy(1)
	case key.Matches(msg, m.keys.PageUp):
		return m.stepBy(-m.halfPool())
	case key.Matches(msg, m.keys.PageDown):
		return m.stepBy(m.halfPool())
	case key.Matches(msg, m.keys.Home):
		if m.view.Finite() {
			return m.goTo(0)
		}
	case key.Matches(msg, m.keys.End):
		if m.view.Finite() {
			return m.goTo(m.view.TotalCount() - 1)
		}
	case key.Matches(msg, m.keys.Jump):
		m.mode = modeJump
		m.jump.Reset()
		cmd := m.jump.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Search):
		return m.openSearch()
	case key.Matches(msg, m.keys.Choose):
		if !m.view.Finite() || m.view.CenterIndex() < m.view.TotalCount() {
			m.chosen = true
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleJumpKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeBrowse
		m.jump.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Choose):
		m.mode = modeBrowse
		m.jump.Blur()
		text := strings.TrimSpace(m.jump.Value())
		idx, err := strconv.Atoi(text)
		if err != nil {
			cmd := m.setStatus(fmt.Sprintf("not an index: %q", text))
			return m, cmd
		}
		// Out of range indices reach the view, which clamps and warns.
		return m.goTo(idx)
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m Model) openSearch() (Model, tea.Cmd) {
	n := m.view.TotalCount()
	if n < 0 {
		cmd := m.setStatus("search needs a finite list")
		return m, cmd
	}
	n = min(n, searchMaxItems)
	items := make([]list.Item, 0, n)
	for i := range n {
		items = append(items, searchItem{Index: i, Text: m.board.item(i)})
	}
	m.search.ResetFilter()
	cmd := m.search.SetItems(items)
	m.search.Select(min(max(m.view.CenterIndex(), 0), max(n-1, 0)))
	m.mode = modeSearch
	m.resize()
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.search.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Escape) && m.search.FilterState() == list.Unfiltered:
			m.mode = modeBrowse
			return m, nil
		case key.Matches(msg, m.keys.Choose):
			it, ok := m.search.SelectedItem().(searchItem)
			m.mode = modeBrowse
			if !ok {
				return m, nil
			}
			return m.goTo(it.Index)
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// handleMouse drags the reel with the left button and scrolls with the wheel.
// A click that does not move selects the card under the pointer.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.mode != modeBrowse || !m.ready() {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m.stepBy(-1)
	case msg.Button == tea.MouseButtonWheelDown:
		return m.stepBy(1)
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.drag = dragState{active: true, lastY: msg.Y, target: m.cardAt(msg)}
		m.hasTarget = false
	case tea.MouseActionMotion:
		if !m.drag.active {
			return m, nil
		}
		// Moving the pointer up scrolls toward later items.
		dy := m.drag.lastY - msg.Y
		if dy == 0 {
			return m, nil
		}
		m.drag.lastY = msg.Y
		m.drag.moved = true
		m.view.OnDragMove(float64(dy) * m.board.rowPixels)
	case tea.MouseActionRelease:
		if !m.drag.active {
			return m, nil
		}
		drag := m.drag
		m.drag = dragState{}
		if !drag.moved && drag.target != uuid.Nil {
			if err := m.view.ScrollToSlot(drag.target); err != nil {
				cmd := m.setStatus(err.Error())
				return m, cmd
			}
			cmd := m.startFrames()
			return m, cmd
		}
		m.view.OnDragEnd()
		cmd := m.startFrames()
		return m, cmd
	}
	return m, nil
}

// cardAt returns the card whose zone contains the pointer.
func (m Model) cardAt(msg tea.MouseMsg) uuid.UUID {
	for id := range m.board.cards {
		if m.zone.Get(id.String()).InBounds(msg) {
			return id
		}
	}
	return uuid.Nil
}

func (m Model) stepBy(n int) (Model, tea.Cmd) {
	base := m.view.CenterIndex()
	if m.hasTarget && m.view.Animating() {
		base = m.targetIndex
	}
	target := base + n
	if m.view.Finite() {
		target = min(max(target, 0), max(m.view.TotalCount()-1, 0))
	}
	if target == base {
		return m, nil
	}
	return m.goTo(target)
}

func (m Model) goTo(index int) (Model, tea.Cmd) {
	if err := m.view.ScrollToIndex(index, true); err != nil {
		cmd := m.setStatus(err.Error())
		return m, cmd
	}
	m.targetIndex = index
	if m.view.Finite() {
		m.targetIndex = min(max(index, 0), max(m.view.TotalCount()-1, 0))
	}
	m.hasTarget = true
	cmd := m.startFrames()
	return m, cmd
}

// startFrames schedules animation frames unless they are already running.
func (m *Model) startFrames() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	m.lastFrame = time.Time{}
	return m.nextFrame()
}

func (m *Model) setStatus(text string) tea.Cmd {
	at := time.Now()
	m.status = text
	m.statusAt = at
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{Set: at} })
}

func (m Model) ready() bool {
	return !m.loading && m.loadErr == nil && m.view.PoolSize() > 0
}

func (m Model) halfPool() int {
	return max(1, m.view.PoolSize()/2)
}

// applyLoaded swaps in a freshly opened source. Reloads keep the centered
// index when it still exists.
func (m *Model) applyLoaded(msg loadedMsg) tea.Cmd {
	if msg.Err != nil {
		if msg.Reload {
			return m.setStatus("reload failed: " + msg.Err.Error())
		}
		m.loading = false
		m.loadErr = msg.Err
		return nil
	}

	start := m.opts.Start
	if msg.Reload {
		start = m.view.CenterIndex()
	}
	m.board.src = msg.Source
	total := msg.Source.Len()
	if err := m.view.Rebuild(m.cfg.View.PoolSize, total); err != nil {
		m.loading = false
		m.loadErr = err
		return nil
	}
	m.loading = false
	m.hasTarget = false
	// ticking is left alone: a pending frame still ends the running chain.

	if total >= 0 {
		start = min(max(start, 0), max(total-1, 0))
	}
	if start != 0 {
		// Rebuild succeeded, so the pool is not empty.
		_ = m.view.ScrollToIndex(start, false)
	}
	if m.mode == modeSearch {
		m.mode = modeBrowse
	}
	return nil
}

// resize fits the canvas to the terminal unless the config pins its size.
func (m *Model) resize() {
	if m.width > 0 {
		m.board.cols = max(1, min(m.cfg.UI.Width, m.width-canvasMargin))
		m.progress.Width = m.board.cols
		m.help.Width = m.width
		m.search.SetWidth(m.board.cols)
	}
	if m.cfg.UI.Height > 0 {
		m.board.rows = m.cfg.UI.Height
	} else if m.height > 0 {
		m.board.rows = max(minCanvasRows, m.height-chromeLines-m.helpLines())
	}
	m.search.SetHeight(max(searchMinRows, m.board.rows))
	m.view.Refresh()
}

func (m Model) helpLines() int {
	if m.help.ShowAll {
		return len(m.keys.FullHelp()[0])
	}
	return 1
}
