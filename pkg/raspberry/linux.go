// +build !windows

package raspberry

import (
	"fmt"
	"sync/atomic"

	"github.com/warthog618/gpio"
	"github.com/warthog618/gpiod"
)

type RpiPin struct {
	gpioPin *gpio.Pin
}

type RpiGPIO struct {
	pins map[int]*RpiPin
	// chip is the gpio character device, opened on the first WatchReset
	chip *gpiod.Chip
}

// Open GPIO memory range from /dev/gpiomem.
func Open() (*RpiGPIO, error) {
	if err := gpio.Open(); err != nil {
		return nil, err
	}
	return &RpiGPIO{pins: map[int]*RpiPin{}}, nil
}

// Close removes the interrupt handlers and unmaps GPIO memory.
func (c *RpiGPIO) Close() error {
	if c.chip != nil {
		_ = c.chip.Close()
	}
	return gpio.Close()
}

// NewPin creates a new pin object.
// The pin number provided is the BCM GPIO number.
func (c *RpiGPIO) NewPin(p int) (Pin, error) {
	if _, ok := c.pins[p]; ok {
		return nil, fmt.Errorf("pin %v already used", p)
	}

	l := &RpiPin{gpioPin: gpio.NewPin(p)}
	c.pins[p] = l
	return l, nil
}

// Input sets pin as Input.
func (p *RpiPin) Input() {
	p.gpioPin.Input()
}

// PullUp sets the pull state of the pin to PullUp.
func (p *RpiPin) PullUp() {
	p.gpioPin.PullUp()
}

// PullDown sets the pull state of the pin to PullDown.
func (p *RpiPin) PullDown() {
	p.gpioPin.PullDown()
}

// Pin returns the pin number that this Pin represents.
func (p *RpiPin) Pin() int {
	return p.gpioPin.Pin()
}

// Read pin state (high/low).
func (p *RpiPin) Read() bool {
	return bool(p.gpioPin.Read())
}

// EmuSet emulate a level change of given pin on Windows systems
// not supported for linux
func (p *RpiPin) EmuSet(level bool) {
}

// RpiResetLine watches the reset net on the gpio character device.
// Edge events latch the line level; Asserted only reads the latched level,
// so the sampler sees reset changes synchronously with its own clock.
type RpiResetLine struct {
	gpiodLine *gpiod.Line
	level     uint32
}

// WatchReset requests the reset line and watches it for edge changes.
// There can only be one watcher on the line at a time.
func (c *RpiGPIO) WatchReset(g int, terminator string) (ResetLine, error) {
	if c.chip == nil {
		chip, err := gpiod.NewChip("gpiochip0")
		if err != nil {
			return nil, err
		}
		c.chip = chip
	}

	r := &RpiResetLine{}

	handler := func(evt gpiod.LineEvent) {
		switch evt.Type {
		case gpiod.LineEventRisingEdge:
			atomic.StoreUint32(&r.level, 1)
		case gpiod.LineEventFallingEdge:
			atomic.StoreUint32(&r.level, 0)
		}
	}

	var err error
	switch terminator {
	case "pullup":
		r.gpiodLine, err = c.chip.RequestLine(g, gpiod.WithEventHandler(handler),
			gpiod.WithBothEdges, gpiod.AsInput, gpiod.WithPullUp)
	case "pulldown":
		r.gpiodLine, err = c.chip.RequestLine(g, gpiod.WithEventHandler(handler),
			gpiod.WithBothEdges, gpiod.AsInput, gpiod.WithPullDown)
	case "none", "":
		r.gpiodLine, err = c.chip.RequestLine(g, gpiod.WithEventHandler(handler),
			gpiod.WithBothEdges, gpiod.AsInput)
	default:
		return nil, ErrInvalidParam
	}

	if err != nil {
		return nil, err
	}

	// start from the current line level, edges only arrive on changes
	if v, verr := r.gpiodLine.Value(); verr == nil && v != 0 {
		atomic.StoreUint32(&r.level, 1)
	}

	return r, nil
}

// Asserted reports the latched reset level.
func (r *RpiResetLine) Asserted() bool {
	return atomic.LoadUint32(&r.level) != 0
}

// Close releases all resources held by the requested line.
//
// Note that this includes waiting for any running event handler to return,
// so Close must not be called from the context of the event handler.
func (r *RpiResetLine) Close() error {
	return r.gpiodLine.Close()
}

// EmuAssert emulates the reset level on Windows systems
// not supported for linux
func (r *RpiResetLine) EmuAssert(asserted bool) {
}
