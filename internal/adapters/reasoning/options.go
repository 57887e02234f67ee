package reasoning

import (
	"time"

	"github.com/okian/affinity/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds every single attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets how many times a transient failure is retried. Zero
// disables retries.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = uint(n)
		}
	}
}

// WithRetryDelay sets the base delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// WithInterval spaces consecutive calls by at least d. Zero removes the
// limit.
func WithInterval(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.interval = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
