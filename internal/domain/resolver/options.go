package resolver

import (
	"github.com/okian/affinity/pkg/logger"
)

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithWeights replaces the source weight table.
func WithWeights(w Weights) Option {
	return func(r *Resolver) {
		if w.Sources != nil {
			r.weights = w
		}
	}
}

// WithMargin sets the weight gap under which the top two values are
// considered ambiguous.
func WithMargin(margin float64) Option {
	return func(r *Resolver) {
		if margin >= 0 {
			r.margin = margin
		}
	}
}

// WithReasoner injects the reasoning client used for ambiguous fields.
func WithReasoner(reasoner Reasoner) Option {
	return func(r *Resolver) {
		r.reasoner = reasoner
	}
}

// WithFieldLimit bounds the length of a free-text field.
func WithFieldLimit(field string, runes int) Option {
	return func(r *Resolver) {
		if runes > 0 {
			r.limits[field] = runes
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}
