package carousel

import "math"

// startTween begins a linear tween from origin to target. Any tween already
// in flight is discarded.
func (v *View[H]) startTween(origin, target float64) {
	v.tween = tween{origin: origin, target: target, active: true}
}

// setImmediate stops any tween and jumps straight to value.
func (v *View[H]) setImmediate(value float64) {
	v.tween.active = false
	v.tween.elapsed = 0
	v.refresh(value)
}

// Tick advances an in-flight tween by dt seconds. The host calls it once per
// frame; it is a no-op while idle.
//
// When the tween reaches its target the view snaps: if the closest slot is
// not exactly centered a short corrective tween is chained, otherwise the host
// is told the view has settled.
func (v *View[H]) Tick(dt float64) {
	if !v.tween.active || len(v.slots) == 0 {
		return
	}
	if dt > 0 {
		v.tween.elapsed += dt
	}

	percent := 1.0
	if v.duration > 0 {
		percent = math.Min(1, v.tween.elapsed/v.duration)
	}
	v.refresh(lerp(v.tween.origin, v.tween.target, percent))

	if v.tween.elapsed >= v.duration {
		v.tween.active = false
		v.tween.elapsed = 0
		v.snap()
	}
}

func (v *View[H]) snap() {
	_, offset := closest(v.slots, v.value)
	if math.Abs(offset) > epsilon {
		v.startTween(v.value, v.value+offset)
		return
	}
	v.settled()
}

func lerp(a, b, t float64) float64 {
	if t >= 1 {
		return b
	}
	return a + (b-a)*t
}
