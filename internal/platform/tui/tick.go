// Package tui provides the Bubble Tea frontends for the claw machine: the
// play screen, the round menu, the results board and the Wish SSH server.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick. Owner identifies the play
// model whose loop scheduled it.
type TickMsg struct {
	Owner uint64
	Time  time.Time
}

var tickOwners atomic.Uint64

// nextTickOwner returns a fresh owner ID for a tick loop.
func nextTickOwner() uint64 {
	return tickOwners.Add(1)
}

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(owner uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Owner: owner, Time: t}
	})
}
