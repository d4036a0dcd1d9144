// Package curve evaluates keyframed animation curves.
package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/ensigniasec/reel/internal/carousel"
)

// Wrap controls how a curve is sampled outside its key range.
type Wrap int

const (
	Clamp Wrap = iota
	Loop
	PingPong
)

func (w Wrap) String() string {
	switch w {
	case Loop:
		return "loop"
	case PingPong:
		return "pingpong"
	default:
		return "clamp"
	}
}

// ParseWrap maps a config value onto a Wrap.
func ParseWrap(s string) (Wrap, error) {
	switch s {
	case "", "clamp":
		return Clamp, nil
	case "loop":
		return Loop, nil
	case "pingpong":
		return PingPong, nil
	}
	return Clamp, fmt.Errorf("unknown wrap mode %q", s)
}

// Key is a single keyframe.
type Key struct {
	Time  float64
	Value float64
}

// Curve is a piecewise linear curve through its keys.
type Curve struct {
	keys []Key
	Pre  Wrap
	Post Wrap
}

// New returns a curve through keys, sorted by time.
func New(pre, post Wrap, keys ...Key) Curve {
	k := make([]Key, len(keys))
	copy(k, keys)
	sort.SliceStable(k, func(i, j int) bool { return k[i].Time < k[j].Time })
	return Curve{keys: k, Pre: pre, Post: post}
}

// Constant returns a curve that always evaluates to v.
func Constant(v float64) Curve {
	return New(Clamp, Clamp, Key{Time: 0, Value: v}, Key{Time: 1, Value: v})
}

// Keys returns a copy of the keyframes.
func (c Curve) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Evaluate samples the curve at t.
func (c Curve) Evaluate(t float64) float64 {
	switch len(c.keys) {
	case 0:
		return 0
	case 1:
		return c.keys[0].Value
	}
	first, last := c.keys[0].Time, c.keys[len(c.keys)-1].Time
	span := last - first
	if span <= 0 {
		return c.keys[0].Value
	}
	switch {
	case t < first:
		t = wrap(c.Pre, t, first, span)
	case t > last:
		t = wrap(c.Post, t, first, span)
	}
	return c.interpolate(t)
}

func wrap(mode Wrap, t, first, span float64) float64 {
	rel := t - first
	switch mode {
	case Loop:
		rel -= math.Floor(rel/span) * span
	case PingPong:
		period := 2 * span
		rel -= math.Floor(rel/period) * period
		if rel > span {
			rel = period - rel
		}
	default:
		rel = math.Max(0, math.Min(span, rel))
	}
	return first + rel
}

func (c Curve) interpolate(t float64) float64 {
	// First key with Time >= t.
	i := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time >= t })
	switch {
	case i == 0:
		return c.keys[0].Value
	case i >= len(c.keys):
		return c.keys[len(c.keys)-1].Value
	}
	a, b := c.keys[i-1], c.keys[i]
	if b.Time == a.Time {
		return b.Value
	}
	f := (t - a.Time) / (b.Time - a.Time)
	return a.Value + (b.Value-a.Value)*f
}

// Set holds one curve per carousel.CurveID and satisfies carousel.Curves.
type Set map[carousel.CurveID]Curve

// Evaluate samples the curve registered for id, or returns 0.
func (s Set) Evaluate(id carousel.CurveID, t float64) float64 {
	c, ok := s[id]
	if !ok {
		return 0
	}
	return c.Evaluate(t)
}

// Defaults returns the curves the carousel uses when none are configured:
// items enter at the top, shrink toward the edges and stack with the center
// item on top.
func Defaults() Set {
	return Set{
		carousel.CurveX:     Constant(0),
		carousel.CurveY:     New(Loop, Loop, Key{0, 1}, Key{1, 0}),
		carousel.CurveScale: New(Loop, Loop, Key{0, 0.35}, Key{0.5, 1}, Key{1, 0.35}),
		carousel.CurveDepth: New(Loop, Loop, Key{0, 0}, Key{0.5, 1}, Key{1, 0}),
	}
}
