// Package sampler drives a pulse width meter from a periodic sample clock.
//
// The sampler owns the ticker and performs exactly one meter tick per clock
// period: read the input level, read the reset level, hand both to the meter.
// The reset source is sampled as a level on the same clock, so a reset network
// that is asynchronous to the clock is only ever seen synchronously by the
// meter and a reset pulse is always counted in whole ticks.
package sampler

import (
	"time"

	"pwmeter/pkg/meter"

	"github.com/womat/debug"
)

// Line is a readable binary input line.
type Line interface {
	// Read returns the current line level (true = high).
	Read() bool
}

// ResetLine is the level view of the reset network.
type ResetLine interface {
	// Asserted reports whether reset is currently asserted.
	Asserted() bool
}

// Sampler contains the handler of the sample clock loop.
type Sampler struct {
	// meter receives one tick per clock period.
	meter *meter.Meter
	// line is the measured input signal.
	line Line
	// reset is the reset source, nil if the meter is never reset.
	reset ResetLine
	// period is the sample clock period (the unit of all measured durations).
	period time.Duration
	// quit stops the sample loop.
	quit chan struct{}
	// done signals that the sample loop is stopped.
	done chan struct{}
}

// New initials a sampler and starts the sample clock loop.
// A nil reset line means reset is permanently deasserted.
func New(m *meter.Meter, line Line, reset ResetLine, period time.Duration) *Sampler {
	s := &Sampler{
		meter:  m,
		line:   line,
		reset:  reset,
		period: period,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	debug.InfoLog.Printf("sampling started, period %v (%.0f Hz)", period, 1/period.Seconds())

	go s.run()
	return s
}

// Period returns the sample clock period.
func (s *Sampler) Period() time.Duration {
	return s.period
}

// Sample performs one tick: read line and reset, update the meter.
// It never blocks and completes well within one clock period.
func (s *Sampler) Sample() {
	rst := s.reset != nil && s.reset.Asserted()
	s.meter.Tick(s.line.Read(), rst)
}

// Close stops the sample clock loop and waits until it has terminated.
// The meter keeps its last latched values.
func (s *Sampler) Close() error {
	s.quit <- struct{}{}
	<-s.done
	return nil
}

// run samples once per ticker period until quit.
// A tick that arrives while the previous Sample is still running is not
// possible: Sample is a pair of line reads and a few stores.
func (s *Sampler) run() {
	t := time.NewTicker(s.period)
	defer t.Stop()

	for {
		select {
		case <-s.quit:
			s.done <- struct{}{}
			return
		case <-t.C:
			s.Sample()
		}
	}
}
