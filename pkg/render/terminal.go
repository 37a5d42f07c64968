package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// ColorBlack is the default background.
var ColorBlack = Color{R: 0, G: 0, B: 0, A: 255}

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row carries two framebuffer rows: ▀ with fg=top, bg=bottom.
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(col, topY)),
					Bg: rgbaToColor(fb.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor maps a transparent pixel to the terminal default color.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalRenderer presents framebuffers on an ultraviolet terminal.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int
	height int
}

// NewTerminalRenderer creates a renderer for a terminal of width×height cells.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height}
}

// Resize updates the cell dimensions after a terminal resize.
func (r *TerminalRenderer) Resize(width, height int) {
	r.width, r.height = width, height
}

// Erase clears the whole screen on the next flush.
func (r *TerminalRenderer) Erase() {
	r.term.Erase()
}

// FramebufferSize returns the pixel size a framebuffer needs to fill the
// terminal: one column per cell and two rows per cell.
func (r *TerminalRenderer) FramebufferSize() (int, int) {
	return r.width, r.height * 2
}

// Render draws fb onto the terminal's screen buffer.
func (r *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(r.term, uv.Rect(0, 0, r.width, r.height))
}

// Flush writes pending cell changes to the terminal.
func (r *TerminalRenderer) Flush() error {
	return r.term.Display()
}
