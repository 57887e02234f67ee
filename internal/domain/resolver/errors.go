package resolver

import "errors"

// Sentinel kinds for discarded reasoning answers.
var (
	ErrNoReasoner     = errors.New("reasoning unavailable")
	ErrEmptyValue     = errors.New("answer has no value")
	ErrConfidence     = errors.New("answer confidence out of range")
	ErrTooManySources = errors.New("answer cites too many sources")
	ErrInventedValue  = errors.New("answer is not one of the candidates")
)
