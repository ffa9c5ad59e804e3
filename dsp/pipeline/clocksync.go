// Package pipeline ties the loopback pipeline together: it reconciles the
// free-running transport sample rate with a fixed service tick, and runs
// the cooperative audio task that moves frames between the ingress and
// egress ring buffers through an effect variant.
package pipeline

import "fmt"

// ClockSync converts a continuous nominal sample rate into an integer
// frame count per service tick using a fractional accumulator.
//
// The long-run average of the returned counts equals the nominal rate
// exactly; the per-tick error is always less than one frame.
type ClockSync struct {
	sampleRate uint64
	tickHz     uint64
	acc        uint64
}

// NewClockSync returns a clock for the given nominal rate and tick rate.
func NewClockSync(sampleRate, tickHz int) (*ClockSync, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("clock sample rate must be > 0: %d", sampleRate)
	}
	if tickHz <= 0 {
		return nil, fmt.Errorf("clock tick rate must be > 0: %d", tickHz)
	}
	return &ClockSync{
		sampleRate: uint64(sampleRate),
		tickHz:     uint64(tickHz),
	}, nil
}

// Tick advances the clock by one service interval and returns the number
// of frames due, carrying the fractional remainder forward.
func (c *ClockSync) Tick() int {
	c.acc += c.sampleRate
	frames := c.acc / c.tickHz
	c.acc %= c.tickHz
	return int(frames)
}

// SetRate switches to a new nominal sample rate and clears the remainder.
func (c *ClockSync) SetRate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("clock sample rate must be > 0: %d", sampleRate)
	}
	c.sampleRate = uint64(sampleRate)
	c.acc = 0
	return nil
}

// Reset clears the fractional remainder.
func (c *ClockSync) Reset() {
	c.acc = 0
}

// Rate returns the nominal sample rate in Hz.
func (c *ClockSync) Rate() int { return int(c.sampleRate) }

// TickHz returns the service tick rate in Hz.
func (c *ClockSync) TickHz() int { return int(c.tickHz) }
