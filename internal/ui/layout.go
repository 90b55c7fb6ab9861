package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the SKU column is hidden.
	LayoutCompactWidth = 100
)

// Activity view limits.
const (
	// ActivityLineLimit is the number of log lines read for the activity view.
	ActivityLineLimit = 400
)

// Timing constants.
const (
	// SearchDebounce is the quiet period after the last keystroke before a
	// search is issued.
	SearchDebounce = 400 * time.Millisecond

	// NoticeDuration is how long transient notices stay on screen.
	NoticeDuration = 3 * time.Second

	// DefaultRequestTimeout bounds a single remote call when none is configured.
	DefaultRequestTimeout = 10 * time.Second
)
