package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// statusHook forwards warnings to the status line while the alt screen hides
// the log output.
type statusHook struct {
	ch chan<- string
}

func (h statusHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (h statusHook) Fire(e *logrus.Entry) error {
	select {
	case h.ch <- formatStatus(e):
	default:
		// Drop rather than stall the update loop.
	}
	return nil
}

func formatStatus(e *logrus.Entry) string {
	if len(e.Data) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys)+1)
	parts = append(parts, e.Message)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Data[k]))
	}
	return strings.Join(parts, " ")
}
