package cabinet

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/core"
	"github.com/vovakirdan/clawround/internal/round"
)

// Minimum screen size for drawing the cabinet.
const (
	MinScreenW = 32
	MinScreenH = 12
)

// Glyphs used by Render.
const (
	ScoreGlyph      = '●'
	MultiplierGlyph = '◆'
	CableGlyph      = '│'
	PartitionGlyph  = '┃'
	ZoneGlyph       = '═'
	ClawGlyph       = '┴'
	JawInGlyph      = '╲'
	JawOutGlyph     = '╱'
)

// Render draws the cabinet, HUD and overlays into dst.
func (c *Cabinet) Render(dst *core.Screen) {
	dst.Clear()

	if dst.Width() < MinScreenW || dst.Height() < MinScreenH {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorDefault)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", MinScreenW, MinScreenH), core.ColorGray)
		return
	}

	st := c.Status()
	cfg := c.world.Config()

	// Row 0 is the HUD and the last row the event ticker.
	v := core.Fit(mgl64.Vec2{cfg.Width, cfg.Height}, dst.Width(), dst.Height()-2)
	v.Origin.Y++

	c.renderHUD(dst, st)
	c.renderFrame(dst, v)
	c.renderBalls(dst, v)
	if st.State == round.StatePlaying {
		c.renderClaw(dst, v)
	}
	c.renderTicker(dst)
	c.renderOverlay(dst, st)
}

func (c *Cabinet) renderHUD(dst *core.Screen, st Status) {
	left := fmt.Sprintf("%s [%s]  seed %s", strings.ToUpper(st.Round), st.Preset, st.Seed)
	dst.DrawText(1, 0, left, core.ColorBrightCyan)

	right := fmt.Sprintf("score %d/%d  grabs %d", st.Total, st.Target, st.Remaining)
	if st.Auto {
		right = "AUTO  " + right
	}
	color := core.ColorBrightWhite
	if st.Target > 0 && st.Total >= st.Target {
		color = core.ColorBrightGreen
	}
	dst.DrawText(dst.Width()-len([]rune(right))-1, 0, right, color)
}

func (c *Cabinet) renderFrame(dst *core.Screen, v core.Viewport) {
	cfg := c.world.Config()
	box := core.NewRect(v.Origin.X-1, v.Origin.Y-1, v.Origin.W+2, v.Origin.H+2)
	dst.DrawBox(box, core.ColorGray)

	// Partition wall between the play field and the drop chute.
	px, top := v.Cell(mgl64.Vec2{cfg.PartitionX, cfg.PartitionTop})
	_, bottom := v.Cell(mgl64.Vec2{cfg.PartitionX, 0})
	dst.DrawVLine(px, top, bottom-top+1, PartitionGlyph, core.ColorGray)

	// Settlement zone floor.
	zx0, _ := v.Cell(mgl64.Vec2{cfg.ZoneMin.X(), 0})
	zx1, _ := v.Cell(mgl64.Vec2{cfg.ZoneMax.X() - 0.001, 0})
	zx0 = core.Clamp(zx0, box.X+1, box.Right()-2)
	zx1 = core.Clamp(zx1, box.X+1, box.Right()-2)
	dst.DrawHLine(zx0, box.Bottom()-1, zx1-zx0+1, ZoneGlyph, core.ColorYellow)
}

func (c *Cabinet) renderBalls(dst *core.Screen, v core.Viewport) {
	arena := c.orch.Arena()
	for _, b := range c.world.Bodies() {
		x, y := v.Cell(b.Pos)
		if !v.Origin.Contains(x, y) {
			continue
		}
		glyph := ScoreGlyph
		if pb, ok := arena.Ball(b.Handle); ok && pb.Category() == ball.CategoryMultiplier {
			glyph = MultiplierGlyph
		}
		color := core.ColorFor(b.Visual)
		if b.Kinematic && c.orch.State() == round.StateStarting {
			color = core.ColorGray
		}
		dst.Set(x, y, glyph, color)
	}
}

func (c *Cabinet) renderClaw(dst *core.Screen, v core.Viewport) {
	m := c.orch.Claw()
	cc := m.Config()
	tip := m.Position()

	// Cosmetic swing shifts the head at most one column.
	if cc.SwingMax > 0 {
		tip = tip.Add(mgl64.Vec2{math.Round(m.SwingAngle()/cc.SwingMax) / v.Scale, 0})
	}

	x, y := v.Cell(tip)
	_, ceiling := v.Cell(mgl64.Vec2{tip.X(), c.world.Config().Height - 0.001})
	if y-ceiling > 0 {
		dst.DrawVLine(x, ceiling, y-ceiling, CableGlyph, core.ColorGray)
	}

	open := m.JawAngle() > (cc.JawOpen+cc.JawClosed)/2
	left, right := JawInGlyph, JawOutGlyph
	if open {
		left, right = JawOutGlyph, JawInGlyph
	}
	dst.Set(x-1, y, left, core.ColorBrightWhite)
	dst.Set(x, y, ClawGlyph, core.ColorBrightWhite)
	dst.Set(x+1, y, right, core.ColorBrightWhite)
}

func (c *Cabinet) renderTicker(dst *core.Screen) {
	if len(c.entries) == 0 {
		return
	}
	last := c.entries[len(c.entries)-1]
	dst.DrawText(1, dst.Height()-1, last.Text, core.ColorGray)
}

func (c *Cabinet) renderOverlay(dst *core.Screen, st Status) {
	switch {
	case st.Paused:
		drawCenteredBox(dst, "PAUSED", "Press P to resume", core.ColorBrightYellow)

	case st.State == round.StateIdle && st.Result != nil:
		title, color := "ROUND LOST", core.ColorBrightRed
		if st.Result.Success {
			title, color = "ROUND WON", core.ColorBrightGreen
		}
		subtitle := fmt.Sprintf("Score %d/%d  |  Press R for next round", st.Result.Total, st.Result.Target)
		drawCenteredBox(dst, title, subtitle, color)

	case st.State == round.StateIdle:
		drawCenteredBox(dst, "INSERT COIN", "Press R to start", core.ColorBrightCyan)
	}
}

func drawCenteredBox(dst *core.Screen, title, subtitle string, color core.Color) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	r := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r, color)
	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title, color)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle, core.ColorDefault)
}
