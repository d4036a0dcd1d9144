//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/reel/internal/config"
	"github.com/ensigniasec/reel/internal/source"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.View.PoolSize = 5
	cfg.View.Duration = 0.5
	cfg.UI.Width = 20
	cfg.UI.Height = 10
	return cfg
}

// newTestModel builds a model over src and delivers the load result.
func newTestModel(t *testing.T, src source.Source, start int) (Model, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	m, err := NewModel(context.Background(), Options{Source: src, Start: start, Config: testConfig(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	m, _ = update(t, m, m.load(false)())
	return m, hook
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)
	return mm, cmd
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// settle feeds frames one second apart until the animation stops.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	now := time.Now()
	for i := 0; i < 10 && m.view.Animating(); i++ {
		now = now.Add(time.Second)
		m, _ = update(t, m, frameMsg(now))
	}
	require.False(t, m.view.Animating())
	return m
}
