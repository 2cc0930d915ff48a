// Package panel provides the Bubble Tea front panel for the simulated device.
package panel

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tallybox/internal/firmware"
	"github.com/verte-zerg/tallybox/internal/hal"
	"github.com/verte-zerg/tallybox/internal/hd44780"
	"github.com/verte-zerg/tallybox/internal/sim"
)

const (
	refreshInterval = 50 * time.Millisecond
	buzzFrames      = 4
)

var (
	lcdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1B2A10")).
			Background(lipgloss.Color("#9BBC0F")).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	lcdCursorStyle = lipgloss.NewStyle().Underline(true)
	ledOnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	buzzOnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	offStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	heldStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type tickMsg time.Time

// Device is the part of the firmware the panel reads.
type Device interface {
	Status() firmware.Status
}

// Model implements the Bubble Tea front panel.
type Model struct {
	device Device
	board  *sim.Board
	hold   time.Duration
	keys   keyMap
	help   help.Model
	errs   chan error

	width  int
	height int

	lastBuzzCount int
	buzzLeft      int
	errMsg        string
}

// NewModel constructs a panel bound to a running device and its board. hold is
// how long a key press keeps a button line down.
func NewModel(device Device, board *sim.Board, hold time.Duration) *Model {
	return &Model{
		device: device,
		board:  board,
		hold:   hold,
		keys:   defaultKeyMap(),
		help:   help.New(),
		errs:   make(chan error, 8),
	}
}

// ReportError shows err in the status line. It never blocks and may be called
// from any goroutine.
func (m *Model) ReportError(err error) {
	select {
	case m.errs <- err:
	default:
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tick()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		for _, b := range m.keys.buttons() {
			if key.Matches(msg, b.binding) {
				m.board.Tap(m.hold, b.pin)
				return m, nil
			}
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) refresh() {
	count := m.board.BuzzCount()
	if count != m.lastBuzzCount {
		m.lastBuzzCount = count
		m.buzzLeft = buzzFrames
	} else if m.buzzLeft > 0 {
		m.buzzLeft--
	}
	for {
		select {
		case err := <-m.errs:
			m.errMsg = err.Error()
		default:
			return
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	display := m.board.Display()
	row, col := display.Cursor()
	lcd := renderLCD(display.Lines(), row, col, display.CursorOn(), display.DisplayOn())

	status := m.device.Status()
	indicators := renderIndicators(m.buzzLeft > 0 || m.board.Buzzer(), m.board.DelayLED())
	buttons := m.renderButtons()
	state := footerStyle.Render(stateLine(status))

	parts := []string{lcd, indicators, buttons, state}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, parts...)
	footer := m.help.View(m.keys)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	footerHeight := lipgloss.Height(footer)
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func renderLCD(lines [hd44780.Rows]string, cursorRow, cursorCol int, cursorOn, displayOn bool) string {
	rendered := make([]string, 0, len(lines))
	for r, line := range lines {
		if !displayOn {
			rendered = append(rendered, strings.Repeat(" ", hd44780.Columns))
			continue
		}
		if !cursorOn || r != cursorRow || cursorCol >= len(line) {
			rendered = append(rendered, line)
			continue
		}
		rendered = append(rendered, line[:cursorCol]+lcdCursorStyle.Render(line[cursorCol:cursorCol+1])+line[cursorCol+1:])
	}
	return lcdStyle.Render(strings.Join(rendered, "\n"))
}

func renderIndicators(buzzing, delay bool) string {
	buzz := offStyle.Render("○ BUZZ")
	if buzzing {
		buzz = buzzOnStyle.Render("● BUZZ")
	}
	led := offStyle.Render("○ WAIT")
	if delay {
		led = ledOnStyle.Render("● WAIT")
	}
	return buzz + "   " + led
}

func (m *Model) renderButtons() string {
	labels := []string{"A", "B", "C", "D", "RST"}
	parts := make([]string, 0, len(labels))
	for i, pin := range hal.Buttons {
		label := "[" + labels[i] + "]"
		if m.board.Held(pin) {
			parts = append(parts, heldStyle.Render(label))
		} else {
			parts = append(parts, offStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func stateLine(st firmware.Status) string {
	if !st.Booted {
		return "booting"
	}
	return fmt.Sprintf("next reset: %s", st.Mode)
}
