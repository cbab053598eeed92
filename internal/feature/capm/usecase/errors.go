package usecase

import "errors"

var (
	// ErrInvalidRequest is returned when an analysis or comparison request fails validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownBenchmark is returned when the requested benchmark is not in the catalog.
	ErrUnknownBenchmark = errors.New("unknown benchmark")

	// errNoData marks a source that answered without any price for the requested range.
	errNoData = errors.New("no price data returned")
)
