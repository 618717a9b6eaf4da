package series

import "errors"

// Errors reported by series and dataset operations. Callers check these
// with errors.Is as returned errors carry extra context.
var (
	// ErrEmptySeries is returned when querying a series with no recorded days.
	ErrEmptySeries = errors.New("series: no days recorded")

	// ErrInvalidWindow is returned for a negative smoothing window.
	ErrInvalidWindow = errors.New("series: invalid smoothing window")

	// ErrMissingRegion is returned for an observation without a region name.
	ErrMissingRegion = errors.New("series: missing region identifier")

	// ErrNotFound is returned when fetching a region not in the dataset.
	ErrNotFound = errors.New("series: not found")
)
