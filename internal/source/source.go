// Package source supplies the items shown in the carousel.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrTooLarge is returned when a file exceeds the read limit.
	ErrTooLarge = errors.New("source file too large")
	// ErrEmpty is returned when a file source holds no items.
	ErrEmpty = errors.New("source has no items")
)

// Source is an indexed list of display strings. Len reports a negative
// count for unbounded sources, whose Item accepts any index.
type Source interface {
	Name() string
	Len() int
	Item(i int) string
}

// List is a finite in-memory source.
type List struct {
	name  string
	items []string
}

// NewList returns a source over a copy of items.
func NewList(name string, items []string) *List {
	cp := make([]string, len(items))
	copy(cp, items)
	return &List{name: name, items: cp}
}

func (l *List) Name() string { return l.name }

func (l *List) Len() int { return len(l.items) }

// Item returns the i'th item or "" when i is out of range.
func (l *List) Item(i int) string {
	if i < 0 || i >= len(l.items) {
		return ""
	}
	return l.items[i]
}

// Items returns a copy of the list contents.
func (l *List) Items() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

// Sequence generates items by formatting their index.
type Sequence struct {
	Format string
	Count  int
}

const defaultSequenceFormat = "item %d"

func (s Sequence) Name() string {
	return fmt.Sprintf("seq:%s:%d", s.format(), s.Count)
}

func (s Sequence) Len() int {
	if s.Count < 0 {
		return -1
	}
	return s.Count
}

func (s Sequence) Item(i int) string {
	if s.Count >= 0 && (i < 0 || i >= s.Count) {
		return ""
	}
	return fmt.Sprintf(s.format(), i)
}

func (s Sequence) format() string {
	if s.Format == "" {
		return defaultSequenceFormat
	}
	return s.Format
}

// Open loads the source at path: directories are walked, structured files
// (.json, .yaml, .yml, .toml) are decoded, anything else is read line by line.
func Open(ctx context.Context, path string) (*List, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return Dir(ctx, expanded)
	}
	if isStructuredFile(expanded) {
		return Structured(expanded)
	}
	return Lines(expanded)
}

// Name derives a stable source name for path, used to key stored positions.
func Name(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return expanded
	}
	return abs
}
