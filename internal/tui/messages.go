package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/ensigniasec/reel/internal/source"
)

// Message types for Bubble Tea update loop.

// frameMsg advances the carousel animation.
type frameMsg time.Time

// loadedMsg carries the result of opening the source.
type loadedMsg struct {
	Source source.Source
	Err    error
	Reload bool
}

// reloadMsg signals that the watched source changed on disk.
type reloadMsg struct{}

// statusMsg carries a warning raised while running.
type statusMsg struct{ Text string }

// clearStatusMsg expires a status line set at Set.
type clearStatusMsg struct{ Set time.Time }

var (
	// ErrAborted is returned when the user quits without choosing.
	ErrAborted = errors.New("aborted")
	// ErrNotLoaded is returned when the user quits before the source loaded.
	// It wraps ErrAborted; no position is known.
	ErrNotLoaded = fmt.Errorf("%w before the source loaded", ErrAborted)

	errNoSource = errors.New("no source to show")
)
