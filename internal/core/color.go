package core

import "strings"

// Color represents a foreground color for a screen cell.
type Color uint8

// Predefined colors for cabinet elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

var visualColors = map[string]Color{
	"red":     ColorBrightRed,
	"blue":    ColorBrightBlue,
	"green":   ColorBrightGreen,
	"gold":    ColorBrightYellow,
	"yellow":  ColorYellow,
	"violet":  ColorBrightMagenta,
	"magenta": ColorMagenta,
	"cyan":    ColorBrightCyan,
	"orange":  ColorOrange,
	"white":   ColorBrightWhite,
	"gray":    ColorGray,
}

// ColorFor maps a ball's visual name to a color. Unknown names draw white.
func ColorFor(visual string) Color {
	if c, ok := visualColors[strings.ToLower(visual)]; ok {
		return c
	}
	return ColorWhite
}
