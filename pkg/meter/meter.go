// Package meter measures the high time and low time of a binary input
// signal with one-tick resolution.
//
// The meter is driven by an external sample clock: Tick is called once per
// clock period with the sampled input level and the synchronized reset level.
// On every level change the length of the just-ended run is latched into the
// duration register of the matching polarity, where it stays until the next
// run of that polarity completes. Readers may sample the latched registers at
// any time; they always see a fully-completed run, never one in progress.
package meter

import (
	"math"
	"sync/atomic"
)

const (
	//heldInReset is the meter state while the reset input is asserted.
	heldInReset stateType = iota
	// accumulatingLow is the meter state while counting a low run.
	accumulatingLow
	// accumulatingHigh is the meter state while counting a high run.
	accumulatingHigh
)

// stateType represents the state of the measurement process.
type stateType int

// Meter is the pulse width meter.
// Tick must only be called from a single goroutine (the sample clock driver);
// HighTicks, LowTicks and Snapshot are safe for any number of concurrent readers.
type Meter struct {
	// state contains the current measurement state.
	state stateType
	// running is the count of ticks of the current unbroken run.
	running uint32
	// high is the latched length of the last completed high run.
	high uint32
	// low is the latched length of the last completed low run.
	low uint32
}

// New initials a new pulse width meter.
// The meter starts as if reset had just been released: the first tick begins
// the first run and both latched registers read zero until a run completes.
func New() *Meter {
	return &Meter{state: heldInReset}
}

// Tick processes one period of the sample clock.
//
// While reset is asserted the running counter and both latched registers are
// forced to zero and no edge detection takes place. The first run measured
// after reset release starts counting from the tick reset was released, so a
// reset that clears mid-run shortens that first measurement by the number of
// ticks the reset overlapped it.
func (m *Meter) Tick(level bool, reset bool) {
	if reset {
		m.state = heldInReset
		m.running = 0
		atomic.StoreUint32(&m.high, 0)
		atomic.StoreUint32(&m.low, 0)
		return
	}

	switch m.state {
	case heldInReset:
		m.begin(level)
	case accumulatingHigh:
		if level {
			m.count()
			return
		}
		atomic.StoreUint32(&m.high, m.running)
		m.begin(level)
	case accumulatingLow:
		if !level {
			m.count()
			return
		}
		atomic.StoreUint32(&m.low, m.running)
		m.begin(level)
	}
}

// count adds the current tick to the running run.
// The counter saturates at its maximum instead of wrapping, a run longer than
// math.MaxUint32 ticks latches exactly math.MaxUint32.
func (m *Meter) count() {
	if m.running < math.MaxUint32 {
		m.running++
	}
}

// begin starts a new run with the current tick as its first tick.
func (m *Meter) begin(level bool) {
	m.running = 1
	if level {
		m.state = accumulatingHigh
		return
	}
	m.state = accumulatingLow
}

// HighTicks returns the length of the most recently completed high run.
// The value is stale by design if no high run has completed since the last read.
func (m *Meter) HighTicks() uint32 {
	return atomic.LoadUint32(&m.high)
}

// LowTicks returns the length of the most recently completed low run.
func (m *Meter) LowTicks() uint32 {
	return atomic.LoadUint32(&m.low)
}

// Snapshot returns both latched registers.
// The two loads are not a single atomic unit: a transition between them can
// pair a new value of one polarity with the old value of the other, but each
// value is always a fully-completed run.
func (m *Meter) Snapshot() Measurement {
	return Measurement{
		HighTicks: atomic.LoadUint32(&m.high),
		LowTicks:  atomic.LoadUint32(&m.low),
	}
}
