package simpleble

import "time"

// ReconnectPolicy returns how long to wait before reconnecting after the
// given disconnect. attempt starts at 1 and is reset by a successful
// connection. A zero delay reconnects right away.
type ReconnectPolicy func(attempt int) time.Duration

// ImmediateReconnect reconnects at once, forever.
func ImmediateReconnect(attempt int) time.Duration {
	return 0
}

// ExponentialBackoff returns a policy that reconnects at once on the first
// attempt, then waits base, 2*base, 4*base, ... never more than max.
func ExponentialBackoff(base, max time.Duration) ReconnectPolicy {
	return func(attempt int) time.Duration {
		if attempt <= 1 || base <= 0 {
			return 0
		}
		d := base
		for i := 2; i < attempt && d < max; i++ {
			d *= 2
		}
		if d > max {
			return max
		}
		return d
	}
}
