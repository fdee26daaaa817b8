package core

import "fmt"

// RGBA is an 8-bit per channel color applied to track pieces and obstacles.
type RGBA struct {
	R, G, B, A uint8
}

// NewRGBA creates an opaque color.
func NewRGBA(r, g, b uint8) RGBA {
	return RGBA{R: r, G: g, B: b, A: 255}
}

// Hex returns the color as #rrggbb.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Predefined colors for track elements.
var (
	ColorBlack = NewRGBA(0, 0, 0)
	ColorWhite = NewRGBA(255, 255, 255)
)
