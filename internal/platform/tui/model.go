package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/clawround/internal/cabinet"
	"github.com/vovakirdan/clawround/internal/core"
	"github.com/vovakirdan/clawround/internal/round"
	"github.com/vovakirdan/clawround/internal/storage"
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// PlayModel is the Bubble Tea model for playing rounds on one cabinet.
type PlayModel struct {
	cab        *cabinet.Cabinet
	owner      uint64 // Tick loop identity; stale ticks are dropped
	screen     *core.Screen
	renderer   *Renderer
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keys       PlayKeyMap
	help       help.Model
	logger     *log.Logger
	quitting   bool
	backToMenu bool
	saved      *int // Results written to the store, shared across copies
	saveErr    *error
}

// NewPlayModel creates a play model. Finished rounds are saved to store when
// it is non-nil.
func NewPlayModel(cab *cabinet.Cabinet, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) PlayModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := PlayModel{
		cab:        cab,
		owner:      nextTickOwner(),
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		renderer:   NewRenderer(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultPlayKeyMap(),
		help:       help.New(),
		logger:     logger.WithPrefix("tui"),
		saved:      new(int),
		saveErr:    new(error),
	}
	m.help.Width = cfg.ScreenW

	preset := string(cab.Status().Preset)
	cab.OnResult(func(r round.Result) {
		if store == nil {
			return
		}
		if _, err := store.SaveResult(storage.Entry(r, preset)); err != nil {
			m.logger.Warn("could not save result", "error", err)
			*m.saveErr = err
			return
		}
		*m.saved++
	})
	return m
}

// Init starts the first round and the tick loop.
func (m PlayModel) Init() tea.Cmd {
	if err := m.cab.Start(); err != nil {
		m.logger.Error("could not start round", "error", err)
	}
	return tickCmd(m.owner, m.config.Interval())
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.Owner != m.owner {
			return m, nil
		}
		m.cab.Step(m.inputFrame)
		m.inputFrame.Clear()
		return m, tickCmd(m.owner, m.config.Interval())
	}

	return m, nil
}

func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "?":
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if key.Matches(msg, m.keys.Back) {
		st := m.cab.Status()
		if st.State == round.StateIdle || st.Paused {
			// Standalone programs exit here; a session swaps in its menu.
			m.backToMenu = true
			return m, tea.Quit
		}
	}

	action := m.keys.MapKey(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

// saveScreenshot writes the current screen to ~/.clawround/screenshots.
func (m *PlayModel) saveScreenshot() {
	m.cab.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".clawround", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	st := m.cab.Status()
	filename := fmt.Sprintf("%s_%s_%s.txt", st.Round, st.Seed, time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, play continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the cabinet and the help line.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}
	m.cab.Render(m.screen)
	return m.renderer.Render(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Cabinet returns the machine being played.
func (m PlayModel) Cabinet() *cabinet.Cabinet {
	return m.cab
}

// Close releases the cabinet.
func (m PlayModel) Close() {
	m.cab.Close()
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Saved returns how many results were written to the store.
func (m PlayModel) Saved() int {
	return *m.saved
}

// SaveErr returns the last store error, if any.
func (m PlayModel) SaveErr() error {
	return *m.saveErr
}

// Run plays rounds on cab in a full-screen program until the user quits.
func Run(cab *cabinet.Cabinet, store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewPlayModel(cab, store, cfg, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
