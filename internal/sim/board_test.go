package sim

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/verte-zerg/tallybox/internal/hal"
)

func TestPullUpIdlesHigh(t *testing.T) {
	b := NewBoard()
	b.SetPinMode(hal.VoteA, hal.InputPullUp)
	if b.ReadPin(hal.VoteA) != gpio.High {
		t.Fatalf("expected idle button to read high")
	}
	b.Press(hal.VoteA)
	if b.ReadPin(hal.VoteA) != gpio.Low {
		t.Fatalf("expected pressed button to read low")
	}
	b.Release(hal.VoteA)
	if b.ReadPin(hal.VoteA) != gpio.High {
		t.Fatalf("expected released button to read high")
	}
}

func TestEnableFallingEdgeLatches(t *testing.T) {
	b := NewBoard()
	for _, pin := range []hal.Pin{hal.RegisterSelect, hal.Enable} {
		b.SetPinMode(pin, hal.Output)
	}
	b.WriteBus('X')
	b.WritePin(hal.RegisterSelect, gpio.High)
	b.WritePin(hal.Enable, gpio.High)
	if b.Transfers() != 0 {
		t.Fatalf("expected no transfer on rising edge")
	}
	b.WritePin(hal.Enable, gpio.Low)
	if b.Transfers() != 1 {
		t.Fatalf("expected one transfer, got %d", b.Transfers())
	}
	if got := b.Display().Lines()[0][0]; got != 'X' {
		t.Fatalf("expected X on display, got %q", got)
	}
}

func TestBuzzCountCountsRisingEdges(t *testing.T) {
	b := NewBoard()
	b.SetPinMode(hal.Buzzer, hal.Output)
	for i := 0; i < 3; i++ {
		b.WritePin(hal.Buzzer, gpio.High)
		if !b.Buzzer() {
			t.Fatalf("expected buzzer on")
		}
		b.WritePin(hal.Buzzer, gpio.Low)
	}
	if b.BuzzCount() != 3 {
		t.Fatalf("expected 3 pulses, got %d", b.BuzzCount())
	}
}

func TestTapReleases(t *testing.T) {
	b := NewBoard()
	b.SetPinMode(hal.Reset, hal.InputPullUp)
	b.Tap(10*time.Millisecond, hal.Reset)
	if !b.Held(hal.Reset) {
		t.Fatalf("expected reset held right after tap")
	}
	deadline := time.Now().Add(2 * time.Second)
	for b.Held(hal.Reset) {
		if time.Now().After(deadline) {
			t.Fatalf("tap never released")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
