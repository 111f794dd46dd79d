// +build windows

package raspberry

import (
	"fmt"
)

type WinPin struct {
	gpioPin int
	level   bool
}

type WinGPIO struct {
	pins map[int]*WinPin
}

// Open GPIO memory range from /dev/gpiomem.
func Open() (*WinGPIO, error) {
	return &WinGPIO{pins: map[int]*WinPin{}}, nil
}

// Close removes the interrupt handlers and unmaps GPIO memory.
func (c *WinGPIO) Close() error {
	return nil
}

// NewPin creates a new pin object.
func (c *WinGPIO) NewPin(p int) (Pin, error) {
	if _, ok := c.pins[p]; ok {
		return nil, fmt.Errorf("pin %v already used", p)
	}

	l := &WinPin{gpioPin: p}
	c.pins[p] = l
	return l, nil
}

// Input sets pin as Input.
func (p *WinPin) Input() {
}

// PullUp sets the pull state of the pin to PullUp.
func (p *WinPin) PullUp() {
}

// PullDown sets the pull state of the pin to PullDown.
func (p *WinPin) PullDown() {
}

// Pin returns the pin number that this Pin represents.
func (p *WinPin) Pin() int {
	return p.gpioPin
}

// Read pin state (high/low).
func (p *WinPin) Read() bool {
	return p.level
}

// EmuSet emulates a level change of given pin on Windows systems.
func (p *WinPin) EmuSet(level bool) {
	p.level = level
}

// WinResetLine emulates the reset net on Windows systems.
type WinResetLine struct {
	asserted bool
}

// WatchReset watches the emulated reset net.
func (c *WinGPIO) WatchReset(g int, terminator string) (ResetLine, error) {
	switch terminator {
	case "pullup", "pulldown", "none", "":
	default:
		return nil, ErrInvalidParam
	}
	return &WinResetLine{}, nil
}

// Asserted reports the emulated reset level.
func (r *WinResetLine) Asserted() bool {
	return r.asserted
}

// Close releases the emulated line.
func (r *WinResetLine) Close() error {
	return nil
}

// EmuAssert emulates the reset level on Windows systems.
func (r *WinResetLine) EmuAssert(asserted bool) {
	r.asserted = asserted
}
