package normalizer

import (
	"strings"

	"github.com/okian/affinity/pkg/logger"
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithDegradeFactor sets the multiplier applied to the confidence of a field
// whose resolution failed and to prior canonical values fed back as candidates.
func WithDegradeFactor(f float64) Option {
	return func(n *Normalizer) {
		if f >= 0 && f <= 1 {
			n.degradeFactor = f
		}
	}
}

// WithFreeMailDomains replaces the free-mail domains that never become a
// company link.
func WithFreeMailDomains(domains ...string) Option {
	return func(n *Normalizer) {
		n.freeMail = make(map[string]struct{}, len(domains))
		for _, d := range domains {
			n.freeMail[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}
