// Package indicator drives the buzzer and the delay LED.
package indicator

import (
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/verte-zerg/tallybox/internal/hal"
)

const buzzDuration = 100 * time.Millisecond

// Indicators holds the outputs used for user feedback.
type Indicators struct {
	board hal.Board
	clock hal.Clock
}

// New returns indicators bound to the board's buzzer and LED pins.
func New(board hal.Board, clock hal.Clock) *Indicators {
	return &Indicators{board: board, clock: clock}
}

// Buzz sounds the buzzer for a fixed 100ms pulse.
func (i *Indicators) Buzz() {
	i.board.WritePin(hal.Buzzer, gpio.High)
	i.clock.Sleep(buzzDuration)
	i.board.WritePin(hal.Buzzer, gpio.Low)
}

// IndicateDelay sets the delay LED level.
func (i *Indicators) IndicateDelay(active bool) {
	level := gpio.Low
	if active {
		level = gpio.High
	}
	i.board.WritePin(hal.DelayLED, level)
}
