package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/clawround/internal/cabinet"
	"github.com/vovakirdan/clawround/internal/core"
)

// cellClass tells cabinet parts apart when they share a color.
type cellClass uint8

const (
	classPlain cellClass = iota
	classBall
	classClaw
	classZone
)

func classify(r rune) cellClass {
	switch r {
	case cabinet.ScoreGlyph, cabinet.MultiplierGlyph:
		return classBall
	case cabinet.ClawGlyph, cabinet.JawInGlyph, cabinet.JawOutGlyph:
		return classClaw
	case cabinet.ZoneGlyph:
		return classZone
	}
	return classPlain
}

type styleKey struct {
	color core.Color
	class cellClass
}

// ballTones are the 256-color shades for the ball visual tags.
var ballTones = map[string]string{
	"red":     "203",
	"blue":    "75",
	"green":   "84",
	"gold":    "220",
	"violet":  "177",
	"magenta": "170",
	"cyan":    "87",
	"orange":  "208",
	"white":   "255",
}

// basePalette covers the colors the cabinet uses for its frame, HUD and
// overlays.
var basePalette = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "178",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "252",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// Renderer turns a drawn cabinet screen into styled terminal output.
type Renderer struct {
	fg     map[core.Color]lipgloss.Color
	ballFg map[core.Color]lipgloss.Color
	zoneBg lipgloss.Color
	styles map[styleKey]lipgloss.Style
}

// NewRenderer builds a renderer with the cabinet palette.
func NewRenderer() *Renderer {
	r := &Renderer{
		fg:     make(map[core.Color]lipgloss.Color, len(basePalette)),
		ballFg: make(map[core.Color]lipgloss.Color, len(ballTones)),
		zoneBg: lipgloss.Color("58"),
		styles: make(map[styleKey]lipgloss.Style),
	}
	for c, code := range basePalette {
		r.fg[c] = lipgloss.Color(code)
	}
	// Ball shades are keyed by the color the cabinet resolves each tag to.
	for visual, code := range ballTones {
		r.ballFg[core.ColorFor(visual)] = lipgloss.Color(code)
	}
	return r
}

func (r *Renderer) style(k styleKey) lipgloss.Style {
	if st, ok := r.styles[k]; ok {
		return st
	}

	st := lipgloss.NewStyle()
	if fg, ok := r.fg[k.color]; ok {
		st = st.Foreground(fg)
	}
	switch k.class {
	case classBall:
		// Gray marks balls still held for spawning.
		if fg, ok := r.ballFg[k.color]; ok && k.color != core.ColorGray {
			st = st.Foreground(fg)
		}
		st = st.Bold(true)
	case classClaw:
		st = st.Bold(true)
	case classZone:
		st = st.Background(r.zoneBg)
	}

	r.styles[k] = st
	return st
}

type run struct {
	key  styleKey
	text string
}

// runs groups adjacent cells of row y that share a style.
func runs(s *core.Screen, y int) []run {
	var out []run
	var sb strings.Builder
	var cur styleKey
	for x := range s.Width() {
		cell := s.GetCell(x, y)
		k := styleKey{color: cell.Color, class: classify(cell.Rune)}
		if x > 0 && k != cur {
			out = append(out, run{key: cur, text: sb.String()})
			sb.Reset()
		}
		cur = k
		sb.WriteRune(cell.Rune)
	}
	if sb.Len() > 0 {
		out = append(out, run{key: cur, text: sb.String()})
	}
	return out
}

// Render styles every row of s.
func (r *Renderer) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for _, rn := range runs(s, y) {
			sb.WriteString(r.style(rn.key).Render(rn.text))
		}
	}
	return sb.String()
}
