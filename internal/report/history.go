package report

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/term"

	"github.com/verte-zerg/tallybox/internal/journal"
)

const (
	timeLayout          = "2006-01-02 15:04:05"
	terminalWidthBackup = 80
)

// SessionsTable renders one line per session.
func SessionsTable(sessions []journal.Session) []string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		ended := "running"
		duration := ""
		if s.EndedAt != nil {
			ended = s.EndedAt.Local().Format(timeLayout)
			duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Source,
			s.StartedAt.Local().Format(timeLayout),
			ended,
			duration,
			strconv.Itoa(s.Events),
		})
	}
	headers := []string{"ID", "Source", "Started", "Ended", "Duration", "Events"}
	return FormatTable(headers, rows, map[int]bool{0: true, 4: true, 5: true})
}

// EventsTable renders one line per recorded event.
func EventsTable(entries []journal.Entry) []string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		candidate := "-"
		if e.Candidate != nil {
			candidate = e.Candidate.String()
		}
		rows = append(rows, []string{
			strconv.Itoa(e.Seq),
			e.At.Local().Format(timeLayout),
			e.Kind.String(),
			candidate,
			e.Mode.String(),
			strconv.Itoa(int(e.Counts.A)),
			strconv.Itoa(int(e.Counts.B)),
			strconv.Itoa(int(e.Counts.C)),
			strconv.Itoa(int(e.Counts.D)),
		})
	}
	headers := []string{"#", "At", "Event", "Button", "Next", "A", "B", "C", "D"}
	return FormatTable(headers, rows, map[int]bool{0: true, 5: true, 6: true, 7: true, 8: true})
}

// TerminalWidth returns the width of stdout, or a fallback when stdout is not
// a terminal.
func TerminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
