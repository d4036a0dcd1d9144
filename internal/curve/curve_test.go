//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/reel/internal/carousel"
)

func TestEvaluate_Interpolates(t *testing.T) {
	c := New(Clamp, Clamp, Key{0.5, 1}, Key{0, 0}, Key{1, 0})
	assert.Equal(t, []Key{{0, 0}, {0.5, 1}, {1, 0}}, c.Keys())

	assert.InDelta(t, 0.0, c.Evaluate(0), 1e-12)
	assert.InDelta(t, 0.5, c.Evaluate(0.25), 1e-12)
	assert.InDelta(t, 1.0, c.Evaluate(0.5), 1e-12)
	assert.InDelta(t, 0.2, c.Evaluate(0.9), 1e-12)
}

func TestEvaluate_WrapModes(t *testing.T) {
	ramp := func(w Wrap) Curve { return New(w, w, Key{0, 0}, Key{1, 1}) }

	tests := []struct {
		name string
		wrap Wrap
		t    float64
		want float64
	}{
		{name: "clamp above", wrap: Clamp, t: 1.7, want: 1},
		{name: "clamp below", wrap: Clamp, t: -3, want: 0},
		{name: "loop above", wrap: Loop, t: 1.25, want: 0.25},
		{name: "loop below", wrap: Loop, t: -0.25, want: 0.75},
		{name: "loop far", wrap: Loop, t: -7.6, want: 0.4},
		{name: "pingpong above", wrap: PingPong, t: 1.25, want: 0.75},
		{name: "pingpong below", wrap: PingPong, t: -0.25, want: 0.25},
		{name: "pingpong second period", wrap: PingPong, t: 2.5, want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ramp(tt.wrap).Evaluate(tt.t), 1e-9)
		})
	}
}

func TestEvaluate_Degenerate(t *testing.T) {
	assert.Zero(t, Curve{}.Evaluate(0.3))
	assert.Equal(t, 2.0, New(Loop, Loop, Key{0.4, 2}).Evaluate(9))
	assert.Equal(t, 3.0, New(Loop, Loop, Key{0.4, 3}, Key{0.4, 5}).Evaluate(0.1))
	assert.Equal(t, 0.7, Constant(0.7).Evaluate(-12))
}

func TestParseWrap(t *testing.T) {
	for _, w := range []Wrap{Clamp, Loop, PingPong} {
		got, err := ParseWrap(w.String())
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
	_, err := ParseWrap("bounce")
	require.Error(t, err)
}

func TestDefaults(t *testing.T) {
	set := Defaults()
	// Center of the cycle: middle of the view, full size, on top.
	assert.InDelta(t, 0.5, set.Evaluate(carousel.CurveY, 0.5), 1e-12)
	assert.InDelta(t, 1.0, set.Evaluate(carousel.CurveScale, 0.5), 1e-12)
	assert.InDelta(t, 1.0, set.Evaluate(carousel.CurveDepth, 0.5), 1e-12)
	// Curves repeat every unit of scroll.
	assert.InDelta(t, set.Evaluate(carousel.CurveY, 0.3), set.Evaluate(carousel.CurveY, -0.7), 1e-12)
	assert.InDelta(t, set.Evaluate(carousel.CurveScale, 0.1), set.Evaluate(carousel.CurveScale, 3.1), 1e-12)
	assert.Zero(t, set.Evaluate(carousel.CurveX, 0.9))
	assert.Zero(t, Set{}.Evaluate(carousel.CurveDepth, 0.5))
}
