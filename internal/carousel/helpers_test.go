//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package carousel

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var errNoMoreSlots = errors.New("no more slots")

// fakeHost records every call the view makes.
type fakeHost struct {
	next       int
	failAfter  int
	live       map[int]bool
	released   []int
	transforms map[int]Transform
	data       map[int]int
	provided   int
	events     []string
	settled    []int
	width      float64
	height     float64
	prefWidth  float64
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		failAfter:  -1,
		live:       make(map[int]bool),
		transforms: make(map[int]Transform),
		data:       make(map[int]int),
		width:      100,
		height:     50,
		prefWidth:  20,
	}
}

func (h *fakeHost) Acquire() (int, error) {
	if h.failAfter >= 0 && len(h.live) >= h.failAfter {
		return 0, errNoMoreSlots
	}
	id := h.next
	h.next++
	h.live[id] = true
	return id, nil
}

func (h *fakeHost) Release(id int) {
	delete(h.live, id)
	h.released = append(h.released, id)
}

func (h *fakeHost) ProvideData(id, dataIndex int) {
	h.data[id] = dataIndex
	h.provided++
}

func (h *fakeHost) Selected(id int, selected bool) {
	if selected {
		h.events = append(h.events, fmt.Sprintf("select:%d", id))
		return
	}
	h.events = append(h.events, fmt.Sprintf("deselect:%d", id))
}

func (h *fakeHost) ApplyTransform(id int, t Transform) { h.transforms[id] = t }
func (h *fakeHost) Bounds() (float64, float64)         { return h.width, h.height }
func (h *fakeHost) PreferredWidth(int) float64         { return h.prefWidth }
func (h *fakeHost) Settled(center int)                 { h.settled = append(h.settled, center) }

// testCurves: y runs 1 -> 0 over each cycle, scale is flat, depth peaks at the center.
func testCurves() Curves {
	return CurvesFunc(func(id CurveID, t float64) float64 {
		f := t - math.Floor(t)
		switch id {
		case CurveY:
			return 1 - f
		case CurveScale:
			return 1
		case CurveDepth:
			return 1 - math.Abs(2*f-1)
		case CurveX:
			return 0.25
		default:
			return 0
		}
	})
}

func newTestView(t *testing.T, poolSize, total int, opts ...Option) (*View[int], *fakeHost, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	host := newFakeHost()
	opts = append([]Option{WithLogger(logger)}, opts...)
	v, err := New[int](host, testCurves(), opts...)
	require.NoError(t, err)
	require.NoError(t, v.Rebuild(poolSize, total))
	return v, host, hook
}

func warnings(hook *test.Hook) []*logrus.Entry {
	var out []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			out = append(out, e)
		}
	}
	return out
}
