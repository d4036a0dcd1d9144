package carousel

import (
	"math"

	"github.com/sirupsen/logrus"
)

// OnDragMove applies one frame of pointer movement. Positive deltaY scrolls
// toward higher indices. Finite lists may overscroll by one step while the
// drag is active.
func (v *View[H]) OnDragMove(deltaY float64) {
	if deltaY == 0 || len(v.slots) == 0 {
		return
	}
	value := v.value + deltaY*v.speed
	if v.Finite() {
		value = clamp(value, v.minValue-v.step, v.maxValue+v.step)
	}
	v.setImmediate(value)
}

// OnDragEnd snaps the closest slot to the center, pulling finite lists back
// inside their limits.
func (v *View[H]) OnDragEnd() {
	if len(v.slots) == 0 {
		return
	}
	_, offset := closest(v.slots, v.value)
	target := v.value + offset
	if v.Finite() {
		target = clamp(target, v.minValue, v.maxValue)
	}
	if math.Abs(target-v.value) > epsilon {
		v.startTween(v.value, target)
		return
	}
	v.settled()
}

// ScrollToIndex brings the item at index to the center, either by tweening
// or by jumping. Finite lists clamp out of range indices and log a warning.
func (v *View[H]) ScrollToIndex(index int, animate bool) error {
	if len(v.slots) == 0 {
		return ErrNotBuilt
	}
	if v.Finite() {
		clamped := min(max(index, 0), max(v.totalCount-1, 0))
		if clamped != index {
			v.log.WithFields(logrus.Fields{
				"index":   index,
				"clamped": clamped,
				"total":   v.totalCount,
			}).Warn("scroll index out of range")
			index = clamped
		}
	}

	// Center the current slot first so the target lands on a step boundary
	// even when called mid tween.
	_, offset := closest(v.slots, v.value)
	target := v.value + offset + float64(index-v.centerIndex)*v.step
	if animate {
		v.startTween(v.value, target)
		return nil
	}
	v.setImmediate(target)
	return nil
}

// ScrollToSlot tweens until the slot holding h is centered.
func (v *View[H]) ScrollToSlot(h H) error {
	if len(v.slots) == 0 {
		return ErrNotBuilt
	}
	idx := v.slotIndex(h)
	if idx < 0 {
		return ErrUnknownSlot
	}
	if idx == v.centerSlot {
		return nil
	}
	target := v.value + centerOffsetFor(v.value, v.slots[idx].CenterOffset)
	if v.Finite() {
		target = clamp(target, v.minValue, v.maxValue)
	}
	v.startTween(v.value, target)
	return nil
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
