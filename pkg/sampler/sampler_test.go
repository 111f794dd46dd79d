package sampler

import (
	"os"
	"testing"
	"time"

	"pwmeter/pkg/meter"

	"github.com/womat/debug"
)

func TestMain(m *testing.M) {
	debug.SetDebug(os.Stderr, 0)
	os.Exit(m.Run())
}

// fakeLine is a settable input line.
type fakeLine struct {
	level bool
}

func (l *fakeLine) Read() bool { return l.level }

// fakeReset is a settable reset source.
type fakeReset struct {
	asserted bool
}

func (r *fakeReset) Asserted() bool { return r.asserted }

func TestSample(t *testing.T) {
	m := meter.New()
	line := &fakeLine{}
	rst := &fakeReset{}

	s := &Sampler{meter: m, line: line, reset: rst, period: time.Millisecond}

	// one meter tick per Sample call
	line.level = true
	for i := 0; i < 5; i++ {
		s.Sample()
	}
	line.level = false
	for i := 0; i < 3; i++ {
		s.Sample()
	}
	line.level = true
	s.Sample()

	if got, want := m.Snapshot(), (meter.Measurement{HighTicks: 5, LowTicks: 3}); got != want {
		t.Errorf("snapshot: got %+v, want %+v", got, want)
	}

	// reset is honored the same tick it is observed
	rst.asserted = true
	s.Sample()
	if got := m.Snapshot(); got != (meter.Measurement{}) {
		t.Errorf("snapshot after reset: got %+v, want zero", got)
	}
}

func TestSampleNilReset(t *testing.T) {
	m := meter.New()
	s := &Sampler{meter: m, line: &fakeLine{level: true}, period: time.Millisecond}

	// a sampler without a reset line never resets the meter
	for i := 0; i < 4; i++ {
		s.Sample()
	}
	s.line = &fakeLine{level: false}
	s.Sample()

	if got := m.HighTicks(); got != 4 {
		t.Errorf("high ticks: got %d, want 4", got)
	}
}

func TestClose(t *testing.T) {
	m := meter.New()
	line := &fakeLine{level: true}

	s := New(m, line, nil, time.Millisecond)

	// the loop is sampling: the running high count grows
	time.Sleep(20 * time.Millisecond)

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// after Close no further samples arrive
	line.level = false
	before := s.meter.Snapshot()
	time.Sleep(10 * time.Millisecond)
	if got := s.meter.Snapshot(); got != before {
		t.Errorf("meter updated after close: %+v != %+v", got, before)
	}
}
