package lcd

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/verte-zerg/tallybox/internal/hal"
	"github.com/verte-zerg/tallybox/internal/sim"
)

type recordingBoard struct {
	ops []string
}

func (r *recordingBoard) SetPinMode(pin hal.Pin, mode hal.Mode) {}

func (r *recordingBoard) ReadPin(pin hal.Pin) gpio.Level { return gpio.High }

func (r *recordingBoard) WritePin(pin hal.Pin, level gpio.Level) {
	r.ops = append(r.ops, fmt.Sprintf("%s=%s", pin, level))
}

func (r *recordingBoard) WriteBus(b byte) {
	r.ops = append(r.ops, fmt.Sprintf("bus=0x%02x", b))
}

type recordingClock struct {
	board  *recordingBoard
	sleeps []time.Duration
}

func (c *recordingClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	if c.board != nil {
		c.board.ops = append(c.board.ops, "sleep "+d.String())
	}
}

func TestSendCommandHandshake(t *testing.T) {
	board := &recordingBoard{}
	clock := &recordingClock{board: board}
	New(board, clock).SendCommand(Clear)
	want := []string{
		"bus=0x01",
		"rs=Low",
		"e=High",
		"sleep 1ms",
		"e=Low",
		"sleep 1ms",
		"bus=0x00",
	}
	if !reflect.DeepEqual(board.ops, want) {
		t.Fatalf("unexpected handshake:\n got %v\nwant %v", board.ops, want)
	}
}

func TestSendCharacterSetsRegisterSelect(t *testing.T) {
	board := &recordingBoard{}
	New(board, &recordingClock{}).SendCharacter('A')
	if board.ops[1] != "rs=High" {
		t.Fatalf("expected data register select, got %v", board.ops)
	}
}

func TestInitSequence(t *testing.T) {
	board := &recordingBoard{}
	clock := &recordingClock{}
	New(board, clock).Init()
	var buses []string
	for _, op := range board.ops {
		if op != "bus=0x00" && op[:3] == "bus" {
			buses = append(buses, op)
		}
	}
	if !reflect.DeepEqual(buses, []string{"bus=0x01", "bus=0x38", "bus=0x0f"}) {
		t.Fatalf("unexpected init commands: %v", buses)
	}
	var settles int
	for _, d := range clock.sleeps {
		if d == settleDelay {
			settles++
		}
	}
	if settles != 2 {
		t.Fatalf("expected 2 settle delays, got %d", settles)
	}
}

func TestSendStringReachesDisplay(t *testing.T) {
	board := sim.NewBoard()
	board.SetPinMode(hal.RegisterSelect, hal.Output)
	board.SetPinMode(hal.Enable, hal.Output)
	d := New(board, hal.NewVirtualClock(nil))
	d.Init()
	d.SendCommand(LineTwo)
	d.SendString("Hello")
	lines := board.Display().Lines()
	if lines[1] != "Hello           " {
		t.Fatalf("unexpected line two %q", lines[1])
	}
	if board.Bus() != 0 {
		t.Fatalf("expected bus cleared after transfer")
	}
	if !board.Display().CursorOn() {
		t.Fatalf("expected cursor on after init")
	}
}
