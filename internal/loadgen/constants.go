package loadgen

import "time"

// Defaults applied to zero Config fields.
const (
	DefaultMembers       = 200
	DefaultMatchLimit    = 10
	DefaultTimeout       = 10 * time.Second
	DefaultSettleTimeout = 2 * time.Minute
	DefaultPollInterval  = 250 * time.Millisecond

	percentageMultiplier = 100
	directoryPermission  = 0o750
)

func (c *Config) withDefaults() Config {
	out := *c
	if out.Members <= 0 {
		out.Members = DefaultMembers
	}
	if out.Workers <= 0 {
		out.Workers = 1
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.MatchLimit <= 0 {
		out.MatchLimit = DefaultMatchLimit
	}
	if out.SettleTimeout <= 0 {
		out.SettleTimeout = DefaultSettleTimeout
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	return out
}
