package trace

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/reel/internal/validate"
)

const (
	defaultWidth     = 100
	defaultHeight    = 50
	defaultPrefWidth = 20
)

var errStepShape = errors.New("step must set exactly one of drag, release, tick, goto or slot")

// Script describes a headless session: the pool to build and the input to
// feed it.
type Script struct {
	Pool int `yaml:"pool" json:"pool" validate:"gte=0"`
	// Total is the data count; nil means an unbounded list.
	Total     *int    `yaml:"total,omitempty" json:"total,omitempty" validate:"omitempty,gte=0"`
	Width     float64 `yaml:"width,omitempty" json:"width,omitempty" validate:"gte=0"`
	Height    float64 `yaml:"height,omitempty" json:"height,omitempty" validate:"gte=0"`
	PrefWidth float64 `yaml:"pref_width,omitempty" json:"pref_width,omitempty" validate:"gte=0"`
	Steps     []Step  `yaml:"steps" json:"steps" validate:"dive"`
}

// Step is one input event. Exactly one field is set.
type Step struct {
	Drag    []float64 `yaml:"drag,omitempty" json:"drag,omitempty"`
	Release bool      `yaml:"release,omitempty" json:"release,omitempty"`
	Tick    *TickStep `yaml:"tick,omitempty" json:"tick,omitempty"`
	Goto    *GotoStep `yaml:"goto,omitempty" json:"goto,omitempty"`
	Slot    *int      `yaml:"slot,omitempty" json:"slot,omitempty" validate:"omitempty,gte=0"`
}

// TickStep advances the animation Count times by DT seconds.
type TickStep struct {
	DT    float64 `yaml:"dt" json:"dt" validate:"gt=0"`
	Count int     `yaml:"count,omitempty" json:"count,omitempty" validate:"gte=0"`
}

type GotoStep struct {
	Index   int  `yaml:"index" json:"index"`
	Animate bool `yaml:"animate,omitempty" json:"animate,omitempty"`
}

// Op names the step's operation.
func (s Step) Op() (string, error) {
	var ops []string
	if len(s.Drag) > 0 {
		ops = append(ops, "drag")
	}
	if s.Release {
		ops = append(ops, "release")
	}
	if s.Tick != nil {
		ops = append(ops, "tick")
	}
	if s.Goto != nil {
		ops = append(ops, "goto")
	}
	if s.Slot != nil {
		ops = append(ops, "slot")
	}
	if len(ops) != 1 {
		return "", fmt.Errorf("%w, got %v", errStepShape, ops)
	}
	return ops[0], nil
}

// TotalCount returns Total, or -1 for an unbounded list.
func (s Script) TotalCount() int {
	if s.Total == nil {
		return -1
	}
	return *s.Total
}

func (s Script) bounds() (width, height, prefWidth float64) {
	width, height, prefWidth = s.Width, s.Height, s.PrefWidth
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}
	if prefWidth == 0 {
		prefWidth = defaultPrefWidth
	}
	return width, height, prefWidth
}

// Validate checks field constraints and that each step holds one operation.
func (s Script) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	for i, step := range s.Steps {
		if _, err := step.Op(); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

// ParseScript decodes a YAML script. Unknown keys are rejected.
func ParseScript(data []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, err
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// LoadScript reads and decodes the script at path.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return Script{}, fmt.Errorf("script %s: %w", path, err)
	}
	return s, nil
}
