package model

// Status describes how completely a pipeline stage succeeded.
type Status string

// Stage statuses.
const (
	StatusOK       Status = "ok"
	StatusDegraded Status = "degraded"
	StatusFailed   Status = "failed"
)

// Result carries a stage output together with its status. Degraded results
// hold a usable best-effort Value; failed results carry Err.
type Result[T any] struct {
	Value   T
	Status  Status
	Reasons []string
	Err     error
}

// OK wraps a fully resolved value.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

// Degraded wraps a best-effort value and the reasons it is not complete.
func Degraded[T any](v T, reasons ...string) Result[T] {
	return Result[T]{Value: v, Status: StatusDegraded, Reasons: reasons}
}

// Failed wraps a hard failure.
func Failed[T any](err error) Result[T] {
	r := Result[T]{Status: StatusFailed, Err: err}
	if err != nil {
		r.Reasons = []string{err.Error()}
	}
	return r
}

// Degrade downgrades r to degraded and appends reasons. Failed stays failed.
func (r *Result[T]) Degrade(reasons ...string) {
	if r.Status != StatusFailed {
		r.Status = StatusDegraded
	}
	r.Reasons = append(r.Reasons, reasons...)
}

// Merge folds the status and reasons of another stage into r.
func (r *Result[T]) Merge(status Status, reasons []string) {
	switch status {
	case StatusFailed:
		r.Status = StatusFailed
	case StatusDegraded:
		if r.Status == StatusOK || r.Status == "" {
			r.Status = StatusDegraded
		}
	}
	r.Reasons = append(r.Reasons, reasons...)
}
