package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrUnavailable  = errors.New("service unavailable")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// kindError is an operation error that matches its kind and its cause with
// errors.Is.
type kindError struct {
	op    string
	kind  error
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.op + ": " + e.kind.Error()
	}
	return e.op + ": " + e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

// WrapKind returns cause classified as kind and raised by op.
func WrapKind(op string, kind, cause error) error {
	return &kindError{op: op, kind: kind, cause: cause}
}

// Wrap classifies cause as an internal error of op.
func Wrap(op string, cause error) error {
	return WrapKind(op, ErrInternal, cause)
}
