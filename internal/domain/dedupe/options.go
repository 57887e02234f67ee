package dedupe

// Option applies a configuration option to the deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize caps how many request ids are remembered. Values <= 0 remove
// the cap.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
