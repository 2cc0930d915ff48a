package firmware

import (
	"fmt"

	"github.com/verte-zerg/tallybox/internal/tally"
)

// Mode is the step the next reset press performs.
type Mode uint8

const (
	ShowWinner Mode = iota
	ShowCounts
	ClearCounts
)

// Next returns the following step, wrapping after ClearCounts.
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

func (m Mode) String() string {
	switch m {
	case ShowWinner:
		return "show-winner"
	case ShowCounts:
		return "show-counts"
	case ClearCounts:
		return "clear-counts"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ShowWinner, ShowCounts, ClearCounts} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// State is everything the main loop owns.
type State struct {
	Tally       tally.Tally
	Mode        Mode
	DelayActive bool
}

// Status is a read-only view of State.
type Status struct {
	Counts      tally.Counts
	Mode        Mode
	DelayActive bool
	Booted      bool
}

// EventKind classifies an accepted button press.
type EventKind uint8

const (
	EventVote EventKind = iota
	EventShowWinner
	EventShowCounts
	EventClearCounts
)

func (k EventKind) String() string {
	switch k {
	case EventVote:
		return "vote"
	case EventShowWinner:
		return "show-winner"
	case EventShowCounts:
		return "show-counts"
	case EventClearCounts:
		return "clear-counts"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, error) {
	for _, k := range []EventKind{EventVote, EventShowWinner, EventShowCounts, EventClearCounts} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event describes one accepted press. Candidate is only meaningful for votes;
// Mode and Counts are the values after the press was handled.
type Event struct {
	Kind      EventKind
	Candidate tally.Candidate
	Mode      Mode
	Counts    tally.Counts
}

// Observer receives every accepted event from the main loop.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnEvent implements Observer.
func (f ObserverFunc) OnEvent(e Event) { f(e) }
