package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/clawround/internal/storage"
)

func seedResults(t *testing.T, store *storage.Store) {
	t.Helper()
	entries := []storage.ResultEntry{
		{Round: "warmup", Seed: "AAAAAA", Success: true, Total: 40, Target: 30, GrabsUsed: 3, Ticks: 900},
		{Round: "warmup", Seed: "BBBBBB", Success: false, Total: 10, Target: 30, GrabsUsed: 5, Ticks: 1500},
		{Round: "classic", Seed: "CCCCCC", Success: true, Total: 90, Target: 80, GrabsUsed: 4, Ticks: 2000},
	}
	for _, e := range entries {
		if _, err := store.SaveResult(e); err != nil {
			t.Fatal(err)
		}
	}
}

func sendResults(m ResultsModel, msgs ...tea.KeyMsg) ResultsModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(ResultsModel)
	}
	return m
}

func TestResultsLoadsRound(t *testing.T) {
	store := openStore(t)
	seedResults(t, store)

	m := NewResultsModel(store, []string{"warmup", "classic", "jackpot"}, 80, 24)
	if m.Round() != "warmup" || len(m.Results()) != 2 {
		t.Fatalf("round %q with %d results", m.Round(), len(m.Results()))
	}
	if m.Results()[0].Seed != "BBBBBB" {
		t.Errorf("recent order starts with %q, expected the newest", m.Results()[0].Seed)
	}
	if m.stats == nil || m.stats.Played != 2 || m.stats.Won != 1 {
		t.Errorf("stats = %+v", m.stats)
	}

	m = sendResults(m, runeKey('o'))
	if m.Results()[0].Seed != "AAAAAA" {
		t.Errorf("best order starts with %q, expected the highest total", m.Results()[0].Seed)
	}
	if !strings.Contains(m.View(), "BEST RESULTS") {
		t.Error("view should name the best order")
	}
}

func TestResultsRoundTabs(t *testing.T) {
	store := openStore(t)
	seedResults(t, store)
	m := NewResultsModel(store, []string{"warmup", "classic", "jackpot"}, 80, 24)

	m = sendResults(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Round() != "classic" || len(m.Results()) != 1 {
		t.Errorf("round %q with %d results", m.Round(), len(m.Results()))
	}

	m = sendResults(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Round() != "jackpot" || len(m.Results()) != 0 {
		t.Errorf("round %q with %d results", m.Round(), len(m.Results()))
	}
	if !strings.Contains(m.View(), "No results recorded yet") {
		t.Error("empty round should say so")
	}
}

func TestResultsWithoutStore(t *testing.T) {
	m := NewResultsModel(nil, []string{"warmup"}, 120, 30)
	if len(m.Results()) != 0 || m.loadErr != nil {
		t.Error("nil store should load nothing without error")
	}
	if !m.showSidebar {
		t.Error("wide screens should show the sidebar")
	}

	m = sendResults(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || m.View() != "" {
		t.Error("esc should go back")
	}
}
