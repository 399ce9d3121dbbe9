package portalgun

import "time"

// Cooldown is the teleport guard: the time of the last teleport plus an
// in-flight flag that clears once the cooldown has elapsed. Times are read
// from the subsystem clock, so a paused subsystem never releases it.
type Cooldown struct {
	Duration time.Duration

	last     time.Duration
	used     bool
	inFlight bool
}

// Ready reports whether a teleport may start at now.
func (c *Cooldown) Ready(now time.Duration) bool {
	if c.inFlight {
		return false
	}
	return !c.used || now-c.last >= c.Duration
}

// Begin marks a teleport in flight.
func (c *Cooldown) Begin(now time.Duration) {
	c.last = now
	c.used = true
	c.inFlight = true
}

// Update clears the in-flight flag once the cooldown has elapsed.
func (c *Cooldown) Update(now time.Duration) {
	if c.inFlight && now-c.last >= c.Duration {
		c.inFlight = false
	}
}

func (c *Cooldown) InFlight() bool {
	return c.inFlight
}

// Last is the clock reading of the most recent teleport.
func (c *Cooldown) Last() (time.Duration, bool) {
	return c.last, c.used
}
