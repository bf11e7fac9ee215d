package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/clawround/internal/config"
	"github.com/vovakirdan/clawround/internal/core"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	menuCursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	menuDetailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	menuPresetStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true)
)

// MenuItem is one selectable round.
type MenuItem struct {
	Round       string
	Description string
	Target      int
	Grabs       int
}

// MenuModel is the Bubble Tea model for the round picker.
type MenuModel struct {
	items       []MenuItem
	presets     []config.Preset
	cursor      int
	preset      int
	width       int
	height      int
	config      core.RuntimeConfig
	keys        MenuKeyMap
	help        help.Model
	quitting    bool
	selected    *MenuItem // Set when user selects a round
	openResults bool      // True if user pressed Tab for results
}

// NewMenuModel creates a menu over the rounds in file. The cursor starts on
// cfg.Round and the preset on cfg.Preset when they exist.
func NewMenuModel(file *config.File, cfg core.RuntimeConfig) MenuModel {
	items := make([]MenuItem, 0, len(file.Rounds))
	cursor := 0
	for i, r := range file.Rounds {
		if r.Name == cfg.Round {
			cursor = i
		}
		items = append(items, MenuItem{
			Round:       r.Name,
			Description: r.Description,
			Target:      r.Target,
			Grabs:       r.Grabs,
		})
	}

	presets := config.Presets()
	preset := 0
	for i, p := range presets {
		if string(p) == cfg.Preset {
			preset = i
		}
		if cfg.Preset == "" && p == config.PresetNormal {
			preset = i
		}
	}

	m := MenuModel{
		items:   items,
		presets: presets,
		cursor:  cursor,
		preset:  preset,
		width:   cfg.ScreenW,
		height:  cfg.ScreenH,
		config:  cfg,
		keys:    DefaultMenuKeyMap(),
		help:    help.New(),
	}
	m.help.Width = cfg.ScreenW
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Easier):
		if m.preset > 0 {
			m.preset--
		}

	case key.Matches(msg, m.keys.Harder):
		if m.preset < len(m.presets)-1 {
			m.preset++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			m.config.Round = selected.Round
			m.config.Preset = string(m.Preset())
			return m, tea.Quit // Exit menu to start the round
		}

	case key.Matches(msg, m.keys.Results):
		m.openResults = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  C L A W   R O U N D  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a round", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf("  %-10s target %3d  grabs %d", item.Round, item.Target, item.Grabs)
		if i == m.cursor {
			line = menuCursorStyle.Render("> ") + menuSelectedStyle.Render(strings.TrimPrefix(line, "  "))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(menuDetailStyle.Render(m.items[m.cursor].Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuPresetStyle.Render(fmt.Sprintf("< %s >", m.Preset())), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Preset returns the preset under the cursor.
func (m MenuModel) Preset() config.Preset {
	return m.presets[m.preset]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsResults returns true if user requested the results board.
func (m MenuModel) WantsResults() bool {
	return m.openResults
}

// Config returns the current runtime config (may have been updated by resize
// or selection).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Round       string
	Preset      config.Preset
	Config      core.RuntimeConfig
	WantsResult bool
	Quit        bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(file *config.File, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(file, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
		Preset: m.Preset(),
	}

	switch {
	case m.WantsResults():
		result.WantsResult = true
	case m.Selected() != nil:
		result.Round = m.Selected().Round
	default:
		result.Quit = true
	}
	return result, nil
}
