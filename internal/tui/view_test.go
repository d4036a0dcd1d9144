//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/reel/internal/source"
)

func TestLayout_DefaultCurves(t *testing.T) {
	m, _ := newTestModel(t, source.Sequence{Count: 20}, 0)

	got := m.board.layout()
	require.Len(t, got, 3)

	rows := make([]int, 0, len(got))
	cols := make([]int, 0, len(got))
	widths := make([]int, 0, len(got))
	indices := make([]int, 0, len(got))
	for _, p := range got {
		rows = append(rows, p.row)
		cols = append(cols, p.col)
		widths = append(widths, p.width)
		indices = append(indices, p.card.dataIndex)
	}
	// Items before index 0 are hidden; later items trail below the center.
	assert.Equal(t, []int{5, 7, 9}, rows)
	assert.Equal(t, []int{0, 3, 5}, cols)
	assert.Equal(t, []int{20, 15, 10}, widths)
	assert.Equal(t, []int{0, 1, 2}, indices)
	assert.True(t, got[0].card.selected)
}

func TestLayout_DeepestCardWinsRow(t *testing.T) {
	b := newBoard(10, 4, 1)
	a, err := b.Acquire()
	require.NoError(t, err)
	c, err := b.Acquire()
	require.NoError(t, err)

	b.cards[a].transform.Scale = 1
	b.cards[a].transform.Depth = 3
	b.cards[a].dataIndex = 1
	b.cards[c].transform.Scale = 0.5
	b.cards[c].transform.Depth = 1
	b.cards[c].dataIndex = 2

	got := b.layout()
	require.Len(t, got, 1)
	assert.Equal(t, a, got[0].card.id)
	assert.Equal(t, 2, got[0].row)
}

func TestBoard_HostCallbacks(t *testing.T) {
	b := newBoard(10, 4, 1)
	b.src = source.NewList("x", []string{"zero", "one"})

	id, err := b.Acquire()
	require.NoError(t, err)
	b.ProvideData(id, 1)
	assert.Equal(t, "one", b.cards[id].text)
	b.ProvideData(id, 7)
	assert.Empty(t, b.cards[id].text)

	b.Selected(id, true)
	assert.True(t, b.cards[id].selected)

	w, h := b.Bounds()
	assert.Equal(t, 10.0, w)
	assert.Equal(t, 4.0, h)
	assert.Equal(t, 10.0, b.PreferredWidth(id))

	b.Settled(3)
	assert.Equal(t, 3, b.lastSettled)
	assert.Equal(t, 1, b.settles)

	b.Release(id)
	assert.Empty(t, b.cards)
	// Callbacks for released cards are ignored.
	b.ProvideData(id, 0)
	b.Selected(id, true)
	assert.Empty(t, b.cards)
}

func TestView_Browse(t *testing.T) {
	m, _ := newTestModel(t, source.Sequence{Count: 20}, 0)
	out := m.View()
	assert.Contains(t, out, "seq:item %d:20")
	assert.Contains(t, out, "item 0")
	assert.Contains(t, out, "item 2")
	assert.Contains(t, out, "1 / 20")
	assert.NotContains(t, out, "item 3")
}

func TestView_InfiniteHeader(t *testing.T) {
	m, _ := newTestModel(t, source.Sequence{Count: -1}, 4)
	m.opts.Title = "numbers"
	out := m.View()
	assert.Contains(t, out, "numbers")
	assert.Contains(t, out, "4 / ∞")
}

func TestView_LoadingAndError(t *testing.T) {
	m, err := NewModel(t.Context(), Options{Title: "files", Config: testConfig()})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	assert.Contains(t, m.View(), "loading files")

	m, _ = update(t, m, m.load(false)())
	assert.Contains(t, m.View(), "no source to show")
}

func TestView_StatusAndJump(t *testing.T) {
	m, _ := newTestModel(t, source.Sequence{Count: 5}, 0)
	m, _ = update(t, m, statusMsg{Text: "careful"})
	assert.Contains(t, m.View(), "⚠ careful")

	m = press(t, m, ":")
	assert.Contains(t, m.View(), "jump to: ")
}

func TestFormatStatus(t *testing.T) {
	logger := logrus.New()
	e := logger.WithFields(logrus.Fields{"total": 20, "index": 99, "clamped": 19})
	e.Message = "scroll index out of range"
	assert.Equal(t, "scroll index out of range clamped=19 index=99 total=20", formatStatus(e))

	assert.Equal(t, "plain", formatStatus(&logrus.Entry{Message: "plain"}))
}

func TestStatusHook_DropsWhenFull(t *testing.T) {
	ch := make(chan string, 1)
	h := statusHook{ch: ch}
	require.NoError(t, h.Fire(&logrus.Entry{Message: "one"}))
	require.NoError(t, h.Fire(&logrus.Entry{Message: "two"}))
	assert.Equal(t, "one", <-ch)
	assert.Contains(t, h.Levels(), logrus.WarnLevel)
	assert.NotContains(t, h.Levels(), logrus.InfoLevel)
}

func TestWithHook_LeavesOriginalUntouched(t *testing.T) {
	orig := make(logrus.LevelHooks)
	out := withHook(orig, statusHook{ch: make(chan string, 1)})
	assert.Empty(t, orig)
	assert.Len(t, out[logrus.WarnLevel], 1)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "short", width: 10, want: "short"},
		{in: "exactly", width: 7, want: "exactly"},
		{in: "truncated", width: 5, want: "trun…"},
		{in: "abc", width: 1, want: "a"},
		{in: "abc", width: 0, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.width), "%q/%d", tt.in, tt.width)
	}
}

func TestSearchItem(t *testing.T) {
	it := searchItem{Index: 3, Text: "gamma"}
	assert.Equal(t, "gamma", it.Title())
	assert.Equal(t, "gamma", it.FilterValue())
	assert.Empty(t, it.Description())
}

func TestStatusTTL(t *testing.T) {
	m, _ := newTestModel(t, source.Sequence{Count: 5}, 0)
	cmd := m.setStatus("x")
	require.NotNil(t, cmd)
	assert.WithinDuration(t, time.Now(), m.statusAt, time.Second)
}
