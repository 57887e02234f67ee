// Package worker runs profile builds off the queue and writes the resulting
// signals to the store.
package worker

import (
	"github.com/okian/affinity/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithObserver registers a callback invoked after every processed request.
func WithObserver(fn Observer) Option {
	return func(w *InMemoryWorker) {
		w.observer = fn
	}
}
