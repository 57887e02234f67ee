package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("signals not found")
	ErrInvalidUserID = errors.New("signals have no user_id")
	ErrClosed        = errors.New("store closed")
)
