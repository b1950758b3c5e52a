package internal

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Theme defines the colors and font of the viewer.
type Theme struct {
	BackgroundColor  sdl.Color // Behind the page image
	OverlayColor     sdl.Color // Page number box
	OverlayTextColor sdl.Color // Page number digits
	IconColor        sdl.Color // Status icon fill
	FontPath         string    // TrueType font for the page number
}

var currentTheme Theme

// SetTheme sets the active theme.
func SetTheme(theme Theme) {
	currentTheme = theme
}

// GetTheme returns the currently active theme.
func GetTheme() Theme {
	return currentTheme
}

// HexToColor converts 0xRRGGBB to an opaque color.
func HexToColor(hex uint32) sdl.Color {
	return sdl.Color{
		R: uint8(hex >> 16),
		G: uint8(hex >> 8),
		B: uint8(hex),
		A: 255,
	}
}
