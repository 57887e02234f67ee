package reasoning

import "errors"

// Sentinel kinds for reasoning failures.
var (
	ErrSchema        = errors.New("reasoning response does not match schema")
	ErrEmptyResponse = errors.New("reasoning response is empty")
	ErrNoAPIKey      = errors.New("reasoning api key is required")
	ErrNotConfigured = errors.New("reasoning generator is not initialized")
)
