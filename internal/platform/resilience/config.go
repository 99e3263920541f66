package resilience

import (
	"time"

	crerr "github.com/cockroachdb/errors"
)

// CircuitBreakerConfig guards one downstream dependency. Name shows up in
// errors and state-change logs.
type CircuitBreakerConfig struct {
	Name             string
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// DefaultCircuitBreakerConfig suits the event index writer: postgres outages
// trip it quickly and one trial batch decides whether to close again.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             "event_index",
		Enabled:          true,
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

// Normalized fills unset fields from the defaults.
func (c CircuitBreakerConfig) Normalized() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if c.Name == "" {
		c.Name = defaults.Name
	}
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

func (c CircuitBreakerConfig) Validate() error {
	switch {
	case c.FailureThreshold < 1:
		return crerr.Newf("circuit %q: failure threshold must be >= 1", c.Name)
	case c.OpenTimeout <= 0:
		return crerr.Newf("circuit %q: open timeout must be > 0", c.Name)
	case c.HalfOpenMaxReq < 1:
		return crerr.Newf("circuit %q: half-open max requests must be >= 1", c.Name)
	}
	return nil
}
