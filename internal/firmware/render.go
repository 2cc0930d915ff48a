package firmware

import (
	"fmt"
	"strconv"

	"github.com/verte-zerg/tallybox/internal/lcd"
	"github.com/verte-zerg/tallybox/internal/tally"
)

// Display is the part of the display driver the renderers need.
type Display interface {
	SendCommand(b byte)
	SendString(s string)
}

// CountsLines formats the two count lines.
func CountsLines(c tally.Counts) (string, string) {
	one := "A=" + strconv.Itoa(int(c.A)) + "     B=" + strconv.Itoa(int(c.B))
	two := "C=" + strconv.Itoa(int(c.C)) + "     D=" + strconv.Itoa(int(c.D))
	return one, two
}

// WinnerLine formats the winner message.
func WinnerLine(c tally.Counts) string {
	return fmt.Sprintf("Winner: %s", tally.Winner(c))
}

// RenderCounts clears the display and writes the counts on both lines.
func RenderCounts(d Display, c tally.Counts) {
	one, two := CountsLines(c)
	d.SendCommand(lcd.Clear)
	d.SendCommand(lcd.LineOne)
	d.SendString(one)
	d.SendCommand(lcd.LineTwo)
	d.SendString(two)
}

// RenderWinner clears the display and writes the winner on line one. Line two
// stays blank.
func RenderWinner(d Display, c tally.Counts) {
	d.SendCommand(lcd.Clear)
	d.SendCommand(lcd.LineOne)
	d.SendString(WinnerLine(c))
}
