package trace

import (
	"fmt"

	"github.com/ensigniasec/reel/internal/carousel"
)

// Frame is the view state observed after one input.
type Frame struct {
	Step        int      `json:"step"`
	Op          string   `json:"op"`
	Value       float64  `json:"value"`
	CenterIndex int      `json:"center_index"`
	Animating   bool     `json:"animating"`
	// Pool is the number of live handles.
	Pool        int      `json:"pool"`
	Visible     []int    `json:"visible"`
	Events      []string `json:"events,omitempty"`
}

// Run feeds steps to view and records a frame after every drag delta, tick
// and other operation.
func Run(view *carousel.View[int], rec *Recorder, steps []Step) ([]Frame, error) {
	var frames []Frame
	capture := func(i int, op string) {
		frames = append(frames, snapshot(view, rec, i, op))
	}

	for i, step := range steps {
		op, err := step.Op()
		if err != nil {
			return frames, fmt.Errorf("step %d: %w", i, err)
		}
		switch op {
		case "drag":
			for _, dy := range step.Drag {
				view.OnDragMove(dy)
				capture(i, op)
			}
		case "release":
			view.OnDragEnd()
			capture(i, op)
		case "tick":
			count := step.Tick.Count
			if count == 0 {
				count = 1
			}
			for range count {
				view.Tick(step.Tick.DT)
				capture(i, op)
			}
		case "goto":
			if err := view.ScrollToIndex(step.Goto.Index, step.Goto.Animate); err != nil {
				return frames, fmt.Errorf("step %d: %w", i, err)
			}
			capture(i, op)
		case "slot":
			slots := view.Slots()
			n := *step.Slot
			if n < 0 || n >= len(slots) {
				return frames, fmt.Errorf("step %d: slot %d out of range (pool %d)", i, n, len(slots))
			}
			if err := view.ScrollToSlot(slots[n].Handle); err != nil {
				return frames, fmt.Errorf("step %d: %w", i, err)
			}
			capture(i, op)
		}
	}
	return frames, nil
}

// Simulate builds a pool for script, runs its steps and returns the frames.
// The first frame (step -1) shows the freshly built view.
func Simulate(script Script, curves carousel.Curves, opts ...carousel.Option) ([]Frame, error) {
	if err := script.Validate(); err != nil {
		return nil, err
	}
	rec := NewRecorder(script.bounds())
	view, err := carousel.New[int](rec, curves, opts...)
	if err != nil {
		return nil, err
	}
	defer view.Close()

	if err := view.Rebuild(script.Pool, script.TotalCount()); err != nil {
		return nil, err
	}
	frames := []Frame{snapshot(view, rec, -1, "build")}
	more, err := Run(view, rec, script.Steps)
	return append(frames, more...), err
}

func snapshot(view *carousel.View[int], rec *Recorder, step int, op string) Frame {
	f := Frame{
		Step:        step,
		Op:          op,
		Value:       view.Value(),
		CenterIndex: view.CenterIndex(),
		Animating:   view.Animating(),
		Pool:        len(rec.Live()),
		Visible:     rec.Visible(),
	}
	for _, e := range rec.DrainEvents() {
		f.Events = append(f.Events, e.String())
	}
	return f
}
