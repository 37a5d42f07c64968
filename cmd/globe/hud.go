package main

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/taigrr/globe/pkg/render"
)

var (
	hudBase  = lipgloss.NewStyle().Background(lipgloss.Color("#000000"))
	hudFPS   = hudBase.Foreground(lipgloss.Color("#64ff64"))
	hudTitle = hudBase.Foreground(lipgloss.Color("#ffffff")).Bold(true)
	hudCount = hudBase.Foreground(lipgloss.Color("#64ffff")).Bold(true)
	hudPause = hudBase.Foreground(lipgloss.Color("#ffd75f")).Bold(true)
	hudHint  = hudBase.Foreground(lipgloss.Color("#808080")).Faint(true)
)

// HUD renders an overlay with frame rate and scene counts.
type HUD struct {
	Visible bool

	dots      int
	impacts   int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a hidden HUD for a globe of the given size.
func NewHUD(dots, impacts int) *HUD {
	return &HUD{
		dots:    dots,
		impacts: impacts,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD directly to the terminal after the frame is flushed.
func (h *HUD) Render(width, height int, stats render.Stats, paused bool) {
	const clearLine = "\x1b[2K"
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows so toggling off works.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if paused {
		msg := hudPause.Render(" ❚❚ PAUSED ")
		fmt.Print(moveTo(height, max((width-lipgloss.Width(msg))/2, 1)) + msg)
	}

	if !h.Visible {
		return
	}

	fmt.Print(moveTo(1, 1) + hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps)))

	title := hudTitle.Render(" globe ")
	fmt.Print(moveTo(1, max((width-lipgloss.Width(title))/2, 1)) + title)

	counts := hudCount.Render(fmt.Sprintf(" %d/%d dots  %d impacts  %d segs ",
		stats.Points, h.dots, h.impacts, stats.Segments))
	fmt.Print(moveTo(1, max(width-lipgloss.Width(counts)+1, 1)) + counts)

	if !paused {
		hint := hudHint.Render(" wasd spin  p pause  r reset  +/- zoom  esc quit ")
		fmt.Print(moveTo(height, 1) + hint)
	}
}
