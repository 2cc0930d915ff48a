// Package firmware implements the voting tally main loop: button polling, the
// reset mode cycle, display rendering and feedback.
package firmware

import (
	"context"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/verte-zerg/tallybox/internal/hal"
	"github.com/verte-zerg/tallybox/internal/indicator"
	"github.com/verte-zerg/tallybox/internal/lcd"
	"github.com/verte-zerg/tallybox/internal/tally"
)

const (
	// Cooldown is how long input is ignored after an accepted press.
	Cooldown = 5 * time.Second

	powerOnDelay  = 50 * time.Millisecond
	splashTime    = 3 * time.Second
	idleInterval  = time.Millisecond
	splashMessage = "Welcome!"
	headerOne     = "A        B"
	headerTwo     = "C        D"
)

var voteButtons = map[hal.Pin]tally.Candidate{
	hal.VoteA: tally.A,
	hal.VoteB: tally.B,
	hal.VoteC: tally.C,
	hal.VoteD: tally.D,
}

// Device runs the firmware against a board. Poll and Run must be called from a
// single goroutine; Status may be called from any goroutine.
type Device struct {
	board      hal.Board
	clock      hal.Clock
	display    *lcd.Driver
	indicators *indicator.Indicators
	observer   Observer

	mu     sync.Mutex
	state  State
	booted bool
}

// New returns a device wired to board. observer may be nil.
func New(board hal.Board, clock hal.Clock, observer Observer) *Device {
	return &Device{
		board:      board,
		clock:      clock,
		display:    lcd.New(board, clock),
		indicators: indicator.New(board, clock),
		observer:   observer,
	}
}

// Boot configures the pins, initialises the display, shows the splash screen
// and leaves the column header on screen. All state starts from zero.
func (d *Device) Boot() {
	for _, pin := range hal.Buttons {
		d.board.SetPinMode(pin, hal.InputPullUp)
	}
	for _, pin := range []hal.Pin{hal.RegisterSelect, hal.Enable, hal.Buzzer, hal.DelayLED} {
		d.board.SetPinMode(pin, hal.Output)
	}
	d.board.WritePin(hal.Buzzer, gpio.Low)
	d.board.WritePin(hal.DelayLED, gpio.Low)

	d.mu.Lock()
	d.state = State{}
	d.booted = false
	d.mu.Unlock()

	d.clock.Sleep(powerOnDelay)
	d.display.Init()

	d.display.SendCommand(lcd.LineOne)
	d.display.SendString(splashMessage)
	d.clock.Sleep(splashTime)

	d.display.SendCommand(lcd.Clear)
	d.display.SendCommand(lcd.LineOne)
	d.display.SendString(headerOne)
	d.display.SendCommand(lcd.LineTwo)
	d.display.SendString(headerTwo)

	d.mu.Lock()
	d.booted = true
	d.mu.Unlock()
}

// Poll runs one polling cycle. Every pressed button is handled in the fixed
// order A, B, C, D, reset, and buzzes once. If anything was accepted the
// cycle ends with a single cooldown during which no input is read. The
// accepted events are returned in order.
func (d *Device) Poll() []Event {
	if d.delayActive() {
		return nil
	}
	var events []Event
	for _, pin := range hal.Buttons {
		if !hal.Pressed(d.board.ReadPin(pin)) {
			continue
		}
		ev := d.handle(pin)
		d.indicators.Buzz()
		d.indicators.IndicateDelay(true)
		d.setDelay(true)
		events = append(events, ev)
		if d.observer != nil {
			d.observer.OnEvent(ev)
		}
	}
	if d.delayActive() {
		d.clock.Sleep(Cooldown)
		d.indicators.IndicateDelay(false)
		d.setDelay(false)
	}
	return events
}

func (d *Device) handle(pin hal.Pin) Event {
	if cand, ok := voteButtons[pin]; ok {
		d.mu.Lock()
		d.state.Tally.Increment(cand)
		ev := Event{Kind: EventVote, Candidate: cand, Mode: d.state.Mode, Counts: d.state.Tally.Snapshot()}
		d.mu.Unlock()
		return ev
	}

	d.mu.Lock()
	mode := d.state.Mode
	var kind EventKind
	switch mode {
	case ShowWinner:
		kind = EventShowWinner
	case ShowCounts:
		kind = EventShowCounts
	default:
		kind = EventClearCounts
		d.state.Tally.Reset()
	}
	d.state.Mode = mode.Next()
	ev := Event{Kind: kind, Mode: d.state.Mode, Counts: d.state.Tally.Snapshot()}
	d.mu.Unlock()

	if kind == EventShowWinner {
		RenderWinner(d.display, ev.Counts)
	} else {
		RenderCounts(d.display, ev.Counts)
	}
	return ev
}

// Run boots the device and polls until ctx is done. Cancellation is checked
// between cycles, so a cooldown that has started always completes.
func (d *Device) Run(ctx context.Context) error {
	d.Boot()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if len(d.Poll()) == 0 {
			d.clock.Sleep(idleInterval)
		}
	}
}

// Status returns a copy of the current state.
func (d *Device) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{
		Counts:      d.state.Tally.Snapshot(),
		Mode:        d.state.Mode,
		DelayActive: d.state.DelayActive,
		Booted:      d.booted,
	}
}

func (d *Device) delayActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.DelayActive
}

func (d *Device) setDelay(active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.DelayActive = active
}
