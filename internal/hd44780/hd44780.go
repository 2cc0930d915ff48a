// Package hd44780 emulates the write side of an HD44780-compatible character
// display controller.
package hd44780

import (
	"strings"
	"sync"
)

const (
	// Columns is the number of visible characters per line.
	Columns = 16
	// Rows is the number of visible lines.
	Rows = 2

	lineLength = 40
	lineTwo    = 0x40
	cgramSize  = 64
)

// Controller holds the display RAM and mode flags. It is safe for concurrent
// use.
type Controller struct {
	mu sync.Mutex

	ddram [Rows][lineLength]byte
	cgram [cgramSize]byte

	addr      byte
	cgramMode bool
	increment bool

	displayOn bool
	cursorOn  bool
	blink     bool

	eightBit bool
	twoLine  bool
}

// New returns a controller in its power-on state.
func New() *Controller {
	c := &Controller{increment: true, eightBit: true}
	c.clear()
	return c
}

// Strobe latches one transfer, as happens on the enable falling edge. rs
// selects data (true) or instruction (false).
func (c *Controller) Strobe(rs bool, b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rs {
		c.writeData(b)
		return
	}
	c.command(b)
}

func (c *Controller) command(b byte) {
	switch {
	case b&0x80 != 0:
		c.cgramMode = false
		c.addr = b & 0x7F
	case b&0x40 != 0:
		c.cgramMode = true
		c.addr = b & 0x3F
	case b&0x20 != 0:
		c.eightBit = b&0x10 != 0
		c.twoLine = b&0x08 != 0
	case b&0x10 != 0:
		if b&0x08 == 0 {
			c.moveCursor(b&0x04 != 0)
		}
	case b&0x08 != 0:
		c.displayOn = b&0x04 != 0
		c.cursorOn = b&0x02 != 0
		c.blink = b&0x01 != 0
	case b&0x04 != 0:
		c.increment = b&0x02 != 0
	case b&0x02 != 0:
		c.cgramMode = false
		c.addr = 0
	case b == 0x01:
		c.clear()
	}
}

func (c *Controller) clear() {
	for row := range c.ddram {
		for col := range c.ddram[row] {
			c.ddram[row][col] = ' '
		}
	}
	c.addr = 0
	c.cgramMode = false
	c.increment = true
}

func (c *Controller) writeData(b byte) {
	if c.cgramMode {
		c.cgram[c.addr%cgramSize] = b
		if c.increment {
			c.addr = (c.addr + 1) % cgramSize
		} else {
			c.addr = (c.addr + cgramSize - 1) % cgramSize
		}
		return
	}
	row, col := position(c.addr)
	c.ddram[row][col] = b
	c.moveCursor(c.increment)
}

func (c *Controller) moveCursor(forward bool) {
	row, col := position(c.addr)
	if forward {
		col++
		if col == lineLength {
			col = 0
			row = (row + 1) % Rows
		}
	} else {
		col--
		if col < 0 {
			col = lineLength - 1
			row = (row + Rows - 1) % Rows
		}
	}
	c.addr = address(row, col)
}

// position maps a DDRAM address to a row and column. Addresses outside the
// two line ranges fold onto the nearest line.
func position(addr byte) (int, int) {
	if addr >= lineTwo {
		return 1, int(addr-lineTwo) % lineLength
	}
	return 0, int(addr) % lineLength
}

func address(row, col int) byte {
	if row == 1 {
		return byte(lineTwo + col)
	}
	return byte(col)
}

// Lines returns the visible characters of each line.
func (c *Controller) Lines() [Rows]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out [Rows]string
	for row := range c.ddram {
		out[row] = string(c.ddram[row][:Columns])
	}
	return out
}

// Text returns the visible lines with trailing spaces removed, joined by a
// newline.
func (c *Controller) Text() string {
	lines := c.Lines()
	trimmed := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed = append(trimmed, strings.TrimRight(line, " "))
	}
	return strings.Join(trimmed, "\n")
}

// Cursor returns the current DDRAM row and column.
func (c *Controller) Cursor() (row, col int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return position(c.addr)
}

// DisplayOn reports whether the display output is enabled.
func (c *Controller) DisplayOn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayOn
}

// CursorOn reports whether the underline cursor is shown.
func (c *Controller) CursorOn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursorOn
}

// Blink reports whether the cursor position blinks.
func (c *Controller) Blink() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blink
}

// EightBit reports whether the last function set selected the 8-bit interface.
func (c *Controller) EightBit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eightBit
}

// TwoLine reports whether the last function set selected two display lines.
func (c *Controller) TwoLine() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.twoLine
}
