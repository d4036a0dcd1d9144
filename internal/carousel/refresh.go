package carousel

// refresh moves the view to value and pushes the resulting state to the host:
// transforms first, then selection changes, then data for every slot.
func (v *View[H]) refresh(value float64) {
	v.value = value
	if len(v.slots) == 0 {
		return
	}

	width, height := v.host.Bounds()
	for i := range v.slots {
		s := &v.slots[i]
		t := s.CenterOffset - value
		s.DataIndex = v.indexOf(value, s.CenterOffset)

		y := (v.curves.Evaluate(CurveY, t) - 0.5) * height
		scale := v.curves.Evaluate(CurveScale, t)
		depth := v.curves.Evaluate(CurveDepth, t)
		if !v.inRange(s.DataIndex) {
			scale = 0
		}

		v.host.ApplyTransform(s.Handle, Transform{
			X:     v.xOffset(s.Handle, t, scale, width),
			Y:     y,
			Scale: scale,
			Depth: int(depth / v.step),
		})
	}

	v.updateSelection()

	for i := range v.slots {
		v.host.ProvideData(v.slots[i].Handle, v.slots[i].DataIndex)
	}
}

// Refresh re-applies the current scroll value, for hosts whose bounds or
// content widths changed.
func (v *View[H]) Refresh() {
	v.refresh(v.value)
}

func (v *View[H]) xOffset(h H, t, scale, width float64) float64 {
	switch v.align {
	case AlignCenter:
		return width*0.5 - v.host.PreferredWidth(h)*scale*0.5
	case AlignCurve:
		return v.curves.Evaluate(CurveX, t) * width
	default:
		return 0
	}
}

// updateSelection recomputes the center slot and tells the host when it moved.
func (v *View[H]) updateSelection() {
	idx, _ := closest(v.slots, v.value)
	cur := v.slots[idx]
	changed := idx != v.centerSlot || cur.DataIndex != v.centerIndex
	v.centerIndex = cur.DataIndex
	if !changed {
		return
	}
	// Hidden centers were never selected, so they are not deselected either.
	if v.centerSelected && v.centerSlot >= 0 && v.centerSlot < len(v.slots) {
		v.host.Selected(v.slots[v.centerSlot].Handle, false)
	}
	v.centerSlot = idx
	v.centerSelected = v.inRange(cur.DataIndex)
	if v.centerSelected {
		v.host.Selected(cur.Handle, true)
	}
}
