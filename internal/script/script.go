// Package script runs the firmware headlessly from a TOML list of button
// presses.
package script

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/tallybox/internal/firmware"
	"github.com/verte-zerg/tallybox/internal/hal"
	"github.com/verte-zerg/tallybox/internal/hd44780"
	"github.com/verte-zerg/tallybox/internal/sim"
	"github.com/verte-zerg/tallybox/internal/tally"
)

type fileScript struct {
	Steps []fileStep `toml:"step"`
}

type fileStep struct {
	Press []string `toml:"press"`
	Wait  string   `toml:"wait"`
}

// Step is one poll cycle with the listed buttons held, followed by a wait.
type Step struct {
	Press []hal.Pin
	Wait  time.Duration
}

// Script is a parsed list of steps.
type Script struct {
	Steps []Step
}

// Result is the device state after a script has run.
type Result struct {
	Lines   [hd44780.Rows]string
	Counts  tally.Counts
	Mode    firmware.Mode
	Events  []firmware.Event
	Elapsed time.Duration
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(string(data))
}

// Parse decodes a TOML script.
func Parse(data string) (Script, error) {
	var raw fileScript
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return Script{}, fmt.Errorf("failed to decode script: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Script{}, fmt.Errorf("unknown script key %q", undecoded[0].String())
	}
	s := Script{Steps: make([]Step, 0, len(raw.Steps))}
	for i, rs := range raw.Steps {
		step, err := compileStep(rs)
		if err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		s.Steps = append(s.Steps, step)
	}
	return s, nil
}

func compileStep(rs fileStep) (Step, error) {
	var step Step
	for _, name := range rs.Press {
		pin, err := ParseButton(name)
		if err != nil {
			return Step{}, err
		}
		step.Press = append(step.Press, pin)
	}
	if rs.Wait != "" {
		d, err := time.ParseDuration(rs.Wait)
		if err != nil {
			return Step{}, fmt.Errorf("invalid wait %q: %w", rs.Wait, err)
		}
		if d < 0 {
			return Step{}, fmt.Errorf("wait must not be negative")
		}
		step.Wait = d
	}
	return step, nil
}

// ParseButton maps a button name (a-d, reset) to its input pin.
func ParseButton(name string) (hal.Pin, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reset", "r":
		return hal.Reset, nil
	}
	cand, err := tally.ParseCandidate(name)
	if err != nil {
		return 0, fmt.Errorf("unknown button %q", name)
	}
	return hal.Buttons[cand], nil
}

// Run boots a fresh simulated device on a virtual clock and plays the steps.
// observer, if set, receives every accepted event.
func Run(s Script, observer firmware.Observer) Result {
	board := sim.NewBoard()
	clock := hal.NewVirtualClock(nil)
	var result Result
	dev := firmware.New(board, clock, firmware.ObserverFunc(func(ev firmware.Event) {
		result.Events = append(result.Events, ev)
		if observer != nil {
			observer.OnEvent(ev)
		}
	}))
	dev.Boot()
	for _, step := range s.Steps {
		if len(step.Press) > 0 {
			board.Press(step.Press...)
			dev.Poll()
			board.Release(step.Press...)
		}
		clock.Sleep(step.Wait)
	}
	st := dev.Status()
	result.Lines = board.Display().Lines()
	result.Counts = st.Counts
	result.Mode = st.Mode
	result.Elapsed = clock.Elapsed()
	return result
}
