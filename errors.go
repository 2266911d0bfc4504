package kest

import "errors"

// The run stops on any of these errors, a partial tax figure is worse than none.
var (
	// ErrRateSource reports that no rate table could be obtained.
	ErrRateSource = errors.New("rate source failure")
	// ErrRateUnavailable reports a date outside of the rate table.
	ErrRateUnavailable = errors.New("no exchange rate available")
	// ErrInvalidEvent reports malformed event data.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrInvalidPosition reports a starting position that cannot be carried forward.
	ErrInvalidPosition = errors.New("invalid position")
	// ErrOversell reports a sell of more shares than held.
	ErrOversell = errors.New("sold more shares than owned")
	// ErrOutOfOrder reports an event older than the last one applied.
	ErrOutOfOrder = errors.New("event out of chronological order")
)
