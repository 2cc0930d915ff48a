package panel

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/tallybox/internal/hal"
)

type keyMap struct {
	VoteA key.Binding
	VoteB key.Binding
	VoteC key.Binding
	VoteD key.Binding
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		VoteA: key.NewBinding(key.WithKeys("1", "a"), key.WithHelp("1/a", "vote A")),
		VoteB: key.NewBinding(key.WithKeys("2", "b"), key.WithHelp("2/b", "vote B")),
		VoteC: key.NewBinding(key.WithKeys("3", "c"), key.WithHelp("3/c", "vote C")),
		VoteD: key.NewBinding(key.WithKeys("4", "d"), key.WithHelp("4/d", "vote D")),
		Reset: key.NewBinding(key.WithKeys("r", "0"), key.WithHelp("r", "reset")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.VoteA, k.VoteB, k.VoteC, k.VoteD, k.Reset, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.VoteA, k.VoteB, k.VoteC, k.VoteD},
		{k.Reset, k.Help, k.Quit},
	}
}

func (k keyMap) buttons() []struct {
	binding key.Binding
	pin     hal.Pin
} {
	return []struct {
		binding key.Binding
		pin     hal.Pin
	}{
		{k.VoteA, hal.VoteA},
		{k.VoteB, hal.VoteB},
		{k.VoteC, hal.VoteC},
		{k.VoteD, hal.VoteD},
		{k.Reset, hal.Reset},
	}
}
