// Package lcd drives a parallel character display through the enable and
// register-select handshake.
package lcd

import (
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/verte-zerg/tallybox/internal/hal"
)

// Instruction bytes used by the device.
const (
	Clear           byte = 0x01
	FunctionSet8Bit byte = 0x38
	DisplayOnCursor byte = 0x0F
	LineOne         byte = 0x80
	LineTwo         byte = 0xC0
)

const (
	strobeDelay = time.Millisecond
	settleDelay = 50 * time.Millisecond
)

// Driver writes to the display. There is no read-back line, so every write is
// fire-and-forget.
type Driver struct {
	board hal.Board
	clock hal.Clock
}

// New returns a driver bound to the board's bus and control lines.
func New(board hal.Board, clock hal.Clock) *Driver {
	return &Driver{board: board, clock: clock}
}

// Init runs the power-on sequence: clear, 8-bit function set, display on with
// cursor.
func (d *Driver) Init() {
	d.SendCommand(Clear)
	d.clock.Sleep(settleDelay)
	d.SendCommand(FunctionSet8Bit)
	d.clock.Sleep(settleDelay)
	d.SendCommand(DisplayOnCursor)
}

// SendCommand transfers an instruction byte.
func (d *Driver) SendCommand(b byte) {
	d.transfer(gpio.Low, b)
}

// SendCharacter transfers a character byte to the current address.
func (d *Driver) SendCharacter(b byte) {
	d.transfer(gpio.High, b)
}

// SendString sends every byte of s in order.
func (d *Driver) SendString(s string) {
	for i := 0; i < len(s); i++ {
		d.SendCharacter(s[i])
	}
}

// transfer puts b on the bus before toggling enable; the display latches on
// the falling edge.
func (d *Driver) transfer(rs gpio.Level, b byte) {
	d.board.WriteBus(b)
	d.board.WritePin(hal.RegisterSelect, rs)
	d.board.WritePin(hal.Enable, gpio.High)
	d.clock.Sleep(strobeDelay)
	d.board.WritePin(hal.Enable, gpio.Low)
	d.clock.Sleep(strobeDelay)
	d.board.WriteBus(0)
}
