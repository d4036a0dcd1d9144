// Package carousel implements a recycling vertical carousel: a fixed pool of
// slots is repositioned every frame along a set of curves so that it can
// stand in for an arbitrarily long, or unbounded, list of items.
//
// The scroll value is the only state that moves. One unit of scroll value
// moves every slot through one full cycle, so adjacent items are one step
// (1/poolSize) apart. The view never renders anything itself; all visual work
// is delegated to a Host.
package carousel

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

const (
	// MinPoolSize is the smallest pool the view will build.
	MinPoolSize = 5

	DefaultSpeed    = 0.006
	DefaultDuration = 1.0

	epsilon = 1e-6
)

// Align selects how the horizontal offset of a slot is derived.
type Align int

const (
	// AlignNone pins every slot at x = 0.
	AlignNone Align = iota
	// AlignCenter centers the scaled content inside the available width.
	AlignCenter
	// AlignCurve samples CurveX and scales it by the available width.
	AlignCurve
)

// ParseAlign maps a config value onto an Align.
func ParseAlign(s string) (Align, error) {
	switch s {
	case "", "center":
		return AlignCenter, nil
	case "none":
		return AlignNone, nil
	case "curve":
		return AlignCurve, nil
	}
	return AlignNone, fmt.Errorf("carousel: unknown align %q", s)
}

// Slot is one recyclable pool entry.
type Slot[H comparable] struct {
	Handle       H
	CenterOffset float64
	DataIndex    int
}

type settings struct {
	speed    float64
	duration float64
	align    Align
	log      logrus.FieldLogger
}

// Option configures a View.
type Option func(*settings)

// WithSpeed sets the scroll value change per unit of drag delta.
func WithSpeed(speed float64) Option {
	return func(s *settings) { s.speed = speed }
}

// WithDuration sets the tween duration in seconds.
func WithDuration(seconds float64) Option {
	return func(s *settings) { s.duration = seconds }
}

// WithAlign sets the horizontal offset policy.
func WithAlign(a Align) Option {
	return func(s *settings) { s.align = a }
}

// WithLogger routes diagnostics to l instead of the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *settings) { s.log = l }
}

// View is the carousel state machine. It is not safe for concurrent use; all
// methods are expected to be called from the host's frame loop.
type View[H comparable] struct {
	host   Host[H]
	curves Curves
	settings

	slots      []Slot[H]
	totalCount int
	step       float64
	phase      float64
	minValue   float64
	maxValue   float64

	value       float64
	centerIndex int
	// pool index of the slot closest to the center, -1 for none.
	centerSlot int
	// whether the host was told the center slot is selected.
	centerSelected bool

	tween tween
}

type tween struct {
	origin  float64
	target  float64
	elapsed float64
	active  bool
}

// New returns an empty view. Rebuild must be called before it shows anything.
func New[H comparable](host Host[H], curves Curves, opts ...Option) (*View[H], error) {
	if host == nil {
		return nil, ErrNoHost
	}
	if curves == nil {
		return nil, ErrNoCurves
	}
	s := settings{
		speed:    DefaultSpeed,
		duration: DefaultDuration,
		align:    AlignCenter,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &View[H]{
		host:       host,
		curves:     curves,
		settings:   s,
		totalCount: -1,
		step:       1.0 / MinPoolSize,
		centerSlot: -1,
	}, nil
}

// Rebuild releases every slot and acquires a fresh pool of max(5, poolSize)
// slots. A negative totalCount makes the list infinite. Scroll and tween state
// are reset and the view is refreshed with index 0 centered.
//
// If the host fails to acquire a slot, the slots acquired so far are released
// and the pool is left empty.
func (v *View[H]) Rebuild(poolSize, totalCount int) error {
	v.releaseAll()

	count := max(MinPoolSize, poolSize)
	v.step = 1.0 / float64(count)
	v.phase = phaseFor(count)
	v.totalCount = totalCount
	// Index 0 rests at -phase steps: 0 for odd pools, half a step back for
	// even ones, where no slot is centered at value 0.
	v.minValue = -v.phase * v.step
	v.maxValue = v.minValue
	if totalCount >= 0 {
		v.maxValue += float64(max(0, totalCount-1)) * v.step
	}

	slots := make([]Slot[H], 0, count)
	for i := 0; i < count; i++ {
		h, err := v.host.Acquire()
		if err != nil {
			for j := len(slots) - 1; j >= 0; j-- {
				v.host.Release(slots[j].Handle)
			}
			return fmt.Errorf("carousel: acquire slot %d of %d: %w", i+1, count, err)
		}
		slots = append(slots, Slot[H]{
			Handle:       h,
			CenterOffset: v.step * (float64(i) + 0.5),
		})
	}
	v.slots = slots
	v.log.WithFields(logrus.Fields{"pool": count, "total": totalCount}).Debug("carousel rebuilt")

	v.setImmediate(v.minValue)
	return nil
}

// Close releases every slot back to the host.
func (v *View[H]) Close() {
	v.releaseAll()
}

func (v *View[H]) releaseAll() {
	for i := len(v.slots) - 1; i >= 0; i-- {
		v.host.Release(v.slots[i].Handle)
	}
	v.slots = nil
	v.tween = tween{}
	v.value = 0
	v.centerIndex = 0
	v.centerSlot = -1
	v.centerSelected = false
}

// Value is the current scroll value.
func (v *View[H]) Value() float64 { return v.value }

// CenterIndex is the data index of the slot closest to the center.
func (v *View[H]) CenterIndex() int { return v.centerIndex }

// Step is the scroll value distance between adjacent items.
func (v *View[H]) Step() float64 { return v.step }

// PoolSize is the number of slots currently in the pool.
func (v *View[H]) PoolSize() int { return len(v.slots) }

// TotalCount is the logical list length, negative when infinite.
func (v *View[H]) TotalCount() int { return v.totalCount }

// Finite reports whether the list has a known length.
func (v *View[H]) Finite() bool { return v.totalCount >= 0 }

// Limits returns the resting range of the scroll value. ok is false for
// infinite lists.
func (v *View[H]) Limits() (lo, hi float64, ok bool) {
	return v.minValue, v.maxValue, v.Finite()
}

// Animating reports whether a tween is in flight.
func (v *View[H]) Animating() bool { return v.tween.active }

// Slots returns a copy of the pool.
func (v *View[H]) Slots() []Slot[H] {
	out := make([]Slot[H], len(v.slots))
	copy(out, v.slots)
	return out
}

// CenterHandle returns the handle of the slot closest to the center.
func (v *View[H]) CenterHandle() (H, bool) {
	var zero H
	if v.centerSlot < 0 || v.centerSlot >= len(v.slots) {
		return zero, false
	}
	return v.slots[v.centerSlot].Handle, true
}

// indexOf is mapIndex corrected by the pool's phase.
func (v *View[H]) indexOf(value, centerOffset float64) int {
	return int(math.Round(rawIndex(value, centerOffset, v.step) + v.phase))
}

func (v *View[H]) inRange(dataIndex int) bool {
	return v.totalCount < 0 || (dataIndex >= 0 && dataIndex < v.totalCount)
}

func (v *View[H]) slotIndex(h H) int {
	for i := range v.slots {
		if v.slots[i].Handle == h {
			return i
		}
	}
	return -1
}

func (v *View[H]) settled() {
	v.log.WithField("center", v.centerIndex).Debug("carousel settled")
	if n, ok := v.host.(SettleNotifier); ok {
		n.Settled(v.centerIndex)
	}
}
