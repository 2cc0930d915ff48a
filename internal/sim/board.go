// Package sim provides a simulated tally board wired to an emulated character
// display.
package sim

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/verte-zerg/tallybox/internal/hal"
	"github.com/verte-zerg/tallybox/internal/hd44780"
)

// Board simulates the button, display and indicator ports of the device.
type Board struct {
	mu sync.Mutex

	modes  map[hal.Pin]hal.Mode
	levels map[hal.Pin]gpio.Level
	held   map[hal.Pin]bool
	bus    byte

	buzzCount int
	transfers int

	display *hd44780.Controller
}

// NewBoard returns a board with every pin floating and a blank display.
func NewBoard() *Board {
	return &Board{
		modes:   map[hal.Pin]hal.Mode{},
		levels:  map[hal.Pin]gpio.Level{},
		held:    map[hal.Pin]bool{},
		display: hd44780.New(),
	}
}

// SetPinMode implements hal.Board.
func (b *Board) SetPinMode(pin hal.Pin, mode hal.Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modes[pin] = mode
}

// ReadPin implements hal.Board. Outputs read back their driven level; inputs
// read low while held and otherwise follow their pull resistor.
func (b *Board) ReadPin(pin hal.Pin) gpio.Level {
	b.mu.Lock()
	defer b.mu.Unlock()
	mode := b.modes[pin]
	if mode == hal.Output {
		return b.levels[pin]
	}
	if b.held[pin] {
		return gpio.Low
	}
	if mode.Pull() == gpio.PullUp {
		return gpio.High
	}
	return gpio.Low
}

// WritePin implements hal.Board.
func (b *Board) WritePin(pin hal.Pin, level gpio.Level) {
	b.mu.Lock()
	prev := b.levels[pin]
	b.levels[pin] = level
	if b.modes[pin] != hal.Output {
		b.mu.Unlock()
		return
	}
	var strobe bool
	switch pin {
	case hal.Buzzer:
		if prev == gpio.Low && level == gpio.High {
			b.buzzCount++
		}
	case hal.Enable:
		strobe = prev == gpio.High && level == gpio.Low
	}
	rs := b.levels[hal.RegisterSelect] == gpio.High
	data := b.bus
	if strobe {
		b.transfers++
	}
	b.mu.Unlock()

	if strobe {
		b.display.Strobe(rs, data)
	}
}

// WriteBus implements hal.Board.
func (b *Board) WriteBus(v byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bus = v
}

// Press holds the given button lines down until Release is called.
func (b *Board) Press(pins ...hal.Pin) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, pin := range pins {
		b.held[pin] = true
	}
}

// Release lets the given button lines return to their idle level.
func (b *Board) Release(pins ...hal.Pin) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, pin := range pins {
		delete(b.held, pin)
	}
}

// Tap presses the lines and releases them after hold of wall-clock time.
func (b *Board) Tap(hold time.Duration, pins ...hal.Pin) {
	b.Press(pins...)
	time.AfterFunc(hold, func() { b.Release(pins...) })
}

// Held reports whether a button line is currently held down.
func (b *Board) Held(pin hal.Pin) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.held[pin]
}

// Buzzer reports the buzzer output level.
func (b *Board) Buzzer() bool {
	return b.ReadPin(hal.Buzzer) == gpio.High
}

// DelayLED reports the delay indicator output level.
func (b *Board) DelayLED() bool {
	return b.ReadPin(hal.DelayLED) == gpio.High
}

// BuzzCount returns the number of buzzer pulses started so far.
func (b *Board) BuzzCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buzzCount
}

// Transfers returns the number of bytes latched into the display.
func (b *Board) Transfers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transfers
}

// Bus returns the byte currently on the display bus.
func (b *Board) Bus() byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bus
}

// Display returns the emulated display controller.
func (b *Board) Display() *hd44780.Controller {
	return b.display
}
