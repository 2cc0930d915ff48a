// Package hal defines the pin-level hardware abstraction the firmware runs on.
package hal

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Pin identifies a single digital line on the board.
type Pin uint8

// Pins wired on the tally board.
const (
	VoteA Pin = iota
	VoteB
	VoteC
	VoteD
	Reset
	RegisterSelect
	Enable
	Buzzer
	DelayLED
)

// Buttons lists the input lines in the order the main loop samples them.
var Buttons = []Pin{VoteA, VoteB, VoteC, VoteD, Reset}

func (p Pin) String() string {
	switch p {
	case VoteA:
		return "vote-a"
	case VoteB:
		return "vote-b"
	case VoteC:
		return "vote-c"
	case VoteD:
		return "vote-d"
	case Reset:
		return "reset"
	case RegisterSelect:
		return "rs"
	case Enable:
		return "e"
	case Buzzer:
		return "buzzer"
	case DelayLED:
		return "delay-led"
	default:
		return fmt.Sprintf("pin(%d)", uint8(p))
	}
}

// Mode is the direction a pin is configured for.
type Mode uint8

const (
	Input Mode = iota
	InputPullUp
	Output
)

// Pull returns the pull resistor that goes with the mode.
func (m Mode) Pull() gpio.Pull {
	if m == InputPullUp {
		return gpio.PullUp
	}
	return gpio.Float
}

// Board is the register-level surface the firmware drives. Writes have no
// acknowledgement, so none of the methods can fail.
type Board interface {
	SetPinMode(pin Pin, mode Mode)
	ReadPin(pin Pin) gpio.Level
	WritePin(pin Pin, level gpio.Level)
	// WriteBus places a byte on the 8-bit parallel display bus.
	WriteBus(b byte)
}

// Pressed reports whether an active-low button line reads as pressed.
func Pressed(level gpio.Level) bool {
	return level == gpio.Low
}
