package loadgen

import "errors"

// Sentinel kinds for load run failures.
var (
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrUnexpected    = errors.New("unexpected response")
	ErrNotSettled    = errors.New("builds did not settle in time")
	ErrInconsistent  = errors.New("inconsistent match list")
	ErrNothingToSave = errors.New("no intakes to save")
)
