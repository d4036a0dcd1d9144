package tui

import "time"

// Package-level constants to avoid magic numbers and improve readability.
const (
	statusBufferSize = 16
	reloadBufferSize = 1

	// chromeLines is the header, progress bar, status line and help line
	// around the canvas. Keep this in sync with View.
	chromeLines = 5
	// minCanvasRows keeps the carousel usable in tiny terminals.
	minCanvasRows = 5
	canvasMargin  = 2

	// searchMaxItems caps the search overlay for very large lists.
	searchMaxItems = 10000
	searchMinRows  = 6

	jumpCharLimit = 12

	statusTTL = 4 * time.Second
)
