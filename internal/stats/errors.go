package stats

import "errors"

// Failures are recovered as close to their source as possible; these
// sentinels exist for logging and wrapping, never to abort a batch.
var (
	// ErrSourceUnavailable marks an upstream fetch failure or timeout,
	// recovered by substituting an empty record list for that source.
	ErrSourceUnavailable = errors.New("stats: upstream source unavailable")
	// ErrDayendUnavailable marks a day-end lookup failure, recovered by
	// falling back to the start of the current day.
	ErrDayendUnavailable = errors.New("stats: dayend lookup unavailable")
	// ErrMalformedEnvelope marks a response that matched no known array
	// shape, recovered as an empty list.
	ErrMalformedEnvelope = errors.New("stats: malformed response envelope")
)
