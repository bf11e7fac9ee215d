package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/clawround/internal/cabinet"
	"github.com/vovakirdan/clawround/internal/core"
	"github.com/vovakirdan/clawround/internal/round"
	"github.com/vovakirdan/clawround/internal/storage"
)

const maxTicks = 60 * 300

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newPlay(t *testing.T, store *storage.Store, opts cabinet.Options) PlayModel {
	t.Helper()
	cab, err := cabinet.New(nil, opts)
	if err != nil {
		t.Fatalf("cabinet.New() error = %v", err)
	}
	t.Cleanup(cab.Close)
	return NewPlayModel(cab, store, core.DefaultConfig(), nil)
}

func tick(m PlayModel) PlayModel {
	next, _ := m.Update(TickMsg{Owner: m.owner})
	return next.(PlayModel)
}

func TestPlaySavesResult(t *testing.T) {
	store := openStore(t)
	m := newPlay(t, store, cabinet.Options{Round: "warmup", Seed: "ABC123", Auto: true})

	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init() should schedule a tick")
	}
	for i := 0; i < maxTicks && m.Cabinet().Status().State != round.StateIdle; i++ {
		m = tick(m)
	}
	if m.Cabinet().Status().State != round.StateIdle {
		t.Fatal("round did not finish")
	}

	if m.Saved() != 1 || m.SaveErr() != nil {
		t.Fatalf("Saved() = %d, SaveErr() = %v", m.Saved(), m.SaveErr())
	}
	results, err := store.RecentResults("warmup", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Seed != "ABC123" || results[0].Preset != "normal" {
		t.Errorf("stored results = %+v", results)
	}
	res := m.Cabinet().Status().Result
	if results[0].Total != res.Total || results[0].Success != res.Success {
		t.Errorf("stored %+v, played %+v", results[0], *res)
	}
}

func TestPlayIgnoresStaleTicks(t *testing.T) {
	m := newPlay(t, nil, cabinet.Options{Round: "classic", Seed: "STALE1"})
	m.Init()

	next, cmd := m.Update(TickMsg{Owner: m.owner + 1000})
	m = next.(PlayModel)
	if cmd != nil {
		t.Error("stale tick should not reschedule")
	}
	if got := m.Cabinet().Orchestrator().Ticks(); got != 0 {
		t.Errorf("stale tick advanced the round to %d ticks", got)
	}

	m = tick(m)
	if got := m.Cabinet().Orchestrator().Ticks(); got != 1 {
		t.Errorf("ticks = %d, expected 1", got)
	}
}

func TestPlayKeysReachCabinet(t *testing.T) {
	m := newPlay(t, nil, cabinet.Options{Round: "classic", Seed: "KEYS01"})
	m.Init()

	next, _ := m.Update(runeKey('p'))
	m = tick(next.(PlayModel))
	if !m.Cabinet().Status().Paused {
		t.Error("p should pause on the next tick")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = tick(next.(PlayModel))
	if !m.Cabinet().Status().Auto {
		t.Error("tab should enable the autopilot")
	}
}

func TestPlayBackAndQuit(t *testing.T) {
	m := newPlay(t, nil, cabinet.Options{Round: "classic", Seed: "BACK01"})
	m.Init()

	// Mid-round, back is ignored until paused.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(PlayModel)
	if m.BackToMenu() {
		t.Error("back should be ignored while a round runs")
	}

	next, _ = m.Update(runeKey('p'))
	m = tick(next.(PlayModel))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(PlayModel)
	if !m.BackToMenu() || cmd == nil {
		t.Error("back should leave a paused round")
	}

	next, _ = m.Update(runeKey('q'))
	m = next.(PlayModel)
	if !m.IsQuitting() || m.View() != "" {
		t.Error("q should quit with an empty view")
	}
}

func TestPlayViewAndResize(t *testing.T) {
	m := newPlay(t, nil, cabinet.Options{Round: "classic", Seed: "VIEW01"})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(PlayModel)
	if m.screen.Width() != 100 || m.screen.Height() != 29 {
		t.Errorf("screen = %dx%d, expected 100x29", m.screen.Width(), m.screen.Height())
	}

	view := m.View()
	if !strings.Contains(view, "INSERT COIN") || !strings.Contains(view, "drop") {
		t.Errorf("view is missing the overlay or help:\n%s", view)
	}
}
