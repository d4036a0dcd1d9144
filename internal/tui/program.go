package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ensigniasec/reel/internal/source"
)

// Run starts the Bubble Tea program and blocks until the user chooses an
// item or quits. Quitting returns the last centered item with ErrAborted.
func Run(ctx context.Context, opts Options) (Choice, error) {
	logger := logrus.StandardLogger()
	opts.Logger = logger

	model, err := NewModel(ctx, opts)
	if err != nil {
		return Choice{}, err
	}
	defer model.Close()

	// Silence log output during the TUI; warnings reach the status line.
	prevOut := logger.Out
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(prevOut)
	prevHooks := logger.ReplaceHooks(withHook(logger.Hooks, statusHook{ch: model.statusCh}))
	defer logger.ReplaceHooks(prevHooks)

	if opts.WatchPath != "" {
		w, err := source.NewWatcher(opts.WatchPath, source.DefaultDebounce, model.notifyReload)
		if err != nil {
			logrus.Debugf("not watching %s: %v", opts.WatchPath, err)
		} else {
			defer w.Close()
			go func() { _ = w.Run(ctx) }()
		}
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return Choice{}, err
	}
	fm, ok := final.(Model)
	if !ok {
		return Choice{}, ErrAborted
	}
	return result(fm)
}

// result maps the final model onto Run's return values.
func result(m Model) (Choice, error) {
	if m.loadErr != nil {
		return Choice{}, m.loadErr
	}
	if _, ok := m.Position(); !ok {
		return Choice{}, ErrNotLoaded
	}
	choice, chosen := m.Choice()
	if !chosen {
		return choice, ErrAborted
	}
	return choice, nil
}

// withHook copies hooks and adds h, leaving the original set untouched.
func withHook(hooks logrus.LevelHooks, h logrus.Hook) logrus.LevelHooks {
	out := make(logrus.LevelHooks, len(hooks))
	for lvl, hs := range hooks {
		out[lvl] = append([]logrus.Hook(nil), hs...)
	}
	out.Add(h)
	return out
}
