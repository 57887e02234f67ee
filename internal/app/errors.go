package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrBuild      = errors.New("profile build failed")
)
