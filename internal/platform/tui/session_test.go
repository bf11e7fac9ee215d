package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/clawround/internal/core"
)

func sendSession(t *testing.T, m SessionModel, msgs ...tea.Msg) SessionModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(SessionModel)
	}
	return m
}

func TestSessionFlow(t *testing.T) {
	store := openStore(t)
	cfg := core.DefaultConfig()
	cfg.Round = "warmup"
	cfg.Seed = "FIRST1"

	m := NewSessionModel(defaultFile(), store, cfg, nil)
	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.InPlay() {
		t.Fatal("enter should start a round")
	}
	t.Cleanup(func() {
		if m.play != nil {
			m.play.Close()
		}
	})

	st := m.play.Cabinet().Status()
	if st.Round != "warmup" || st.Seed != "FIRST1" {
		t.Errorf("status = %+v, expected warmup on the given seed", st)
	}
	if m.config.Seed != "" {
		t.Error("the given seed should apply to the first pick only")
	}

	// Pause, then leave for the menu.
	m = sendSession(t, m, runeKey('p'), TickMsg{Owner: m.play.owner}, tea.KeyMsg{Type: tea.KeyEsc})
	if m.InPlay() || m.play != nil {
		t.Fatal("esc on a paused round should return to the menu")
	}

	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !m.InResults() {
		t.Fatal("tab should open the results board")
	}
	m = sendSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.InResults() || m.InPlay() {
		t.Fatal("esc should return to the menu")
	}

	next, cmd := m.Update(runeKey('q'))
	m = next.(SessionModel)
	if cmd == nil || m.View() != "" {
		t.Error("q should quit the session")
	}
}

func TestSessionTracksResize(t *testing.T) {
	m := NewSessionModel(defaultFile(), nil, core.DefaultConfig(), nil)
	m = sendSession(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.config.ScreenW != 120 || m.config.ScreenH != 40 {
		t.Errorf("config = %+v", m.config)
	}
	if m.menu.width != 120 {
		t.Errorf("menu width = %d", m.menu.width)
	}
}
