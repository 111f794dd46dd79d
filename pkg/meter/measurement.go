package meter

import "time"

// Measurement is one snapshot of the two latched duration registers.
// All derived values are pure functions of the snapshot and the tick period,
// reading a measurement never changes meter state.
type Measurement struct {
	// HighTicks is the latched high run length in sample clock ticks.
	HighTicks uint32
	// LowTicks is the latched low run length in sample clock ticks.
	LowTicks uint32
}

// HighTime converts the latched high run length to a duration.
func (m Measurement) HighTime(tick time.Duration) time.Duration {
	return time.Duration(m.HighTicks) * tick
}

// LowTime converts the latched low run length to a duration.
func (m Measurement) LowTime(tick time.Duration) time.Duration {
	return time.Duration(m.LowTicks) * tick
}

// Period is the duration of one full cycle (high run plus low run).
func (m Measurement) Period(tick time.Duration) time.Duration {
	return time.Duration(uint64(m.HighTicks)+uint64(m.LowTicks)) * tick
}

// Frequency is the signal frequency in Hz, 0 if no full cycle has been measured.
func (m Measurement) Frequency(tick time.Duration) float64 {
	p := m.Period(tick)
	if p == 0 {
		return 0
	}
	return 1 / p.Seconds()
}

// DutyCycle is the high time as a percentage of the period, 0 if no full
// cycle has been measured.
func (m Measurement) DutyCycle() float64 {
	total := uint64(m.HighTicks) + uint64(m.LowTicks)
	if total == 0 {
		return 0
	}
	return float64(m.HighTicks) / float64(total) * 100
}
