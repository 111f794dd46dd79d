// Package raspberry is the gpio glue between the board pins and the sampler.
//
// The measured signal is read through the memory mapped gpio registers
// (/dev/gpiomem), which is cheap enough to poll at kHz sample rates. The
// reset net is watched through the gpio character device: edges latch a level
// flag that the sampler reads synchronously with its own clock.
package raspberry

import "fmt"

var ErrInvalidParam = fmt.Errorf("invalid parameters")

// GPIO is the handler of the board gpio resources.
type GPIO interface {
	// NewPin requests a single input pin.
	// The pin number provided is the BCM GPIO number.
	NewPin(gpio int) (Pin, error)
	// WatchReset watches the reset net on the given pin.
	// terminator selects the pull resistor: "pullup", "pulldown" or "none".
	WatchReset(gpio int, terminator string) (ResetLine, error)
	// Close removes the interrupt handlers and unmaps GPIO memory.
	Close() error
}

// Pin is a single input pin.
type Pin interface {
	// Input sets pin as Input.
	Input()
	// PullUp sets the pull state of the pin to PullUp.
	PullUp()
	// PullDown sets the pull state of the pin to PullDown.
	PullDown()
	// Pin returns the pin number that this Pin represents.
	Pin() int
	// Read pin state (high/low).
	Read() bool
	// EmuSet emulates a level change of the pin on Windows systems.
	// not supported for linux
	EmuSet(level bool)
}

// ResetLine is the latched level view of the watched reset net.
type ResetLine interface {
	// Asserted reports the latched reset level.
	Asserted() bool
	// Close releases all resources held by the requested line.
	Close() error
	// EmuAssert emulates the reset level on Windows systems.
	// not supported for linux
	EmuAssert(asserted bool)
}
