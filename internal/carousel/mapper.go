package carousel

import "math"

// frac folds v into [0,1).
func frac(v float64) float64 {
	f := v - math.Floor(v)
	// v - floor(v) rounds up to 1 for tiny negative v.
	if f >= 1 {
		return 0
	}
	return f
}

// mapIndex returns the data index the slot at centerOffset shows for value.
// A slot keeps its index while it travels through the cycle and jumps by the
// pool size when it wraps, so the pool always covers a contiguous window.
func mapIndex(value, centerOffset, step float64) int {
	return int(math.Round(rawIndex(value, centerOffset, step)))
}

// rawIndex is mapIndex before rounding. It is integral for odd pool sizes and
// half-integral for even ones.
func rawIndex(value, centerOffset, step float64) float64 {
	return (frac(centerOffset-value) + value - 0.5) / step
}

// phaseFor is the index bias, in steps, that makes rawIndex integral for a
// pool of count slots.
func phaseFor(count int) float64 {
	if count%2 == 0 {
		return 0.5
	}
	return 0
}

// centerOffsetFor returns the signed distance value has to move for the slot
// at centerOffset to sit exactly at the center. The result lies in (-0.5, 0.5].
func centerOffsetFor(value, centerOffset float64) float64 {
	return 0.5 - frac(value-centerOffset)
}

// closest returns the pool index of the slot nearest the center and the
// offset that centers it. Ties go to the lowest index. An empty pool yields -1.
func closest[H comparable](slots []Slot[H], value float64) (int, float64) {
	idx := -1
	best := math.MaxFloat64
	for i := range slots {
		d := centerOffsetFor(value, slots[i].CenterOffset)
		if math.Abs(d) < math.Abs(best) {
			idx = i
			best = d
		}
	}
	if idx < 0 {
		return -1, 0
	}
	return idx, best
}
