// Package trace drives a carousel headlessly and records what a host would
// have been told to draw.
package trace

import (
	"fmt"
	"sort"

	"github.com/ensigniasec/reel/internal/carousel"
)

// SlotState is the last state pushed to one handle.
type SlotState struct {
	DataIndex int                `json:"data_index"`
	Selected  bool               `json:"selected"`
	Transform carousel.Transform `json:"transform"`
}

// EventKind classifies recorded notifications.
type EventKind string

const (
	EventSelect   EventKind = "select"
	EventDeselect EventKind = "deselect"
	EventSettle   EventKind = "settle"
)

// Event is a selection change or a settle notification.
type Event struct {
	Kind   EventKind `json:"kind"`
	Handle int       `json:"handle,omitempty"`
	Index  int       `json:"index,omitempty"`
}

func (e Event) String() string {
	if e.Kind == EventSettle {
		return fmt.Sprintf("%s:%d", e.Kind, e.Index)
	}
	return fmt.Sprintf("%s:%d", e.Kind, e.Handle)
}

// Recorder is a carousel host with integer handles that keeps the latest
// state of every live handle.
type Recorder struct {
	width     float64
	height    float64
	prefWidth float64

	next   int
	slots  map[int]*SlotState
	events []Event
}

// NewRecorder returns a recorder reporting the given bounds. Every handle
// prefers prefWidth.
func NewRecorder(width, height, prefWidth float64) *Recorder {
	return &Recorder{
		width:     width,
		height:    height,
		prefWidth: prefWidth,
		slots:     make(map[int]*SlotState),
	}
}

func (r *Recorder) Acquire() (int, error) {
	h := r.next
	r.next++
	r.slots[h] = &SlotState{DataIndex: -1}
	return h, nil
}

func (r *Recorder) Release(h int) { delete(r.slots, h) }

func (r *Recorder) ProvideData(h, dataIndex int) {
	if s, ok := r.slots[h]; ok {
		s.DataIndex = dataIndex
	}
}

func (r *Recorder) Selected(h int, selected bool) {
	if s, ok := r.slots[h]; ok {
		s.Selected = selected
	}
	kind := EventDeselect
	if selected {
		kind = EventSelect
	}
	r.events = append(r.events, Event{Kind: kind, Handle: h})
}

func (r *Recorder) ApplyTransform(h int, t carousel.Transform) {
	if s, ok := r.slots[h]; ok {
		s.Transform = t
	}
}

func (r *Recorder) Bounds() (float64, float64) { return r.width, r.height }

func (r *Recorder) PreferredWidth(int) float64 { return r.prefWidth }

func (r *Recorder) Settled(centerIndex int) {
	r.events = append(r.events, Event{Kind: EventSettle, Index: centerIndex})
}

// Slot returns the recorded state of h.
func (r *Recorder) Slot(h int) (SlotState, bool) {
	s, ok := r.slots[h]
	if !ok {
		return SlotState{}, false
	}
	return *s, true
}

// Live returns the live handles in ascending order.
func (r *Recorder) Live() []int {
	out := make([]int, 0, len(r.slots))
	for h := range r.slots {
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

// Visible returns the data indices of slots drawn with a non-zero scale,
// ascending.
func (r *Recorder) Visible() []int {
	out := make([]int, 0, len(r.slots))
	for _, s := range r.slots {
		if s.Transform.Scale > 0 {
			out = append(out, s.DataIndex)
		}
	}
	sort.Ints(out)
	return out
}

// Events returns the notifications recorded so far.
func (r *Recorder) Events() []Event {
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// DrainEvents returns and clears the recorded notifications.
func (r *Recorder) DrainEvents() []Event {
	out := r.events
	r.events = nil
	return out
}
