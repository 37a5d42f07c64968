package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/globe/pkg/assets"
	"github.com/taigrr/globe/pkg/globe"
	"github.com/taigrr/globe/pkg/math3d"
	"github.com/taigrr/globe/pkg/render"
	"github.com/taigrr/globe/pkg/rng"
)

const (
	defaultCameraZ = 16.0
	minCameraZ     = 7.0
	maxCameraZ     = 40.0
	idleYaw        = 0.003 // radians per frame
	keyImpulse     = 0.04
)

type viewOptions struct {
	fps       int
	bg        string
	mask      string
	assetsDir string
}

func newViewCmd(root *rootOptions) *cobra.Command {
	opts := viewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Run the globe animation in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.Context(), root, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.fps, "fps", 60, "Target FPS")
	f.StringVar(&opts.bg, "bg", "12,12,24", "Background color (R,G,B)")
	f.StringVar(&opts.mask, "mask", "", "Equirectangular mask image; green >= 50% hides points")
	f.StringVar(&opts.assetsDir, "assets", "", "Directory holding earthspec1k.jpg, used when --mask is unset")
	return cmd
}

// maskSources picks the textures to load for the visibility mask.
func maskSources(opts viewOptions) []assets.Source {
	switch {
	case opts.mask != "":
		return []assets.Source{{Name: assets.GlobeTexture, Type: assets.TypeTexture, Path: opts.mask}}
	case opts.assetsDir != "":
		return assets.DefaultSources(opts.assetsDir)
	default:
		return nil
	}
}

// loadMask waits for the asset loader and returns the mask, or nil when no
// mask was requested.
func loadMask(ctx context.Context, opts viewOptions, log *slog.Logger) (globe.Mask, error) {
	ld := assets.NewLoader(maskSources(opts), assets.WithLogger(log))
	ld.Start(ctx)
	if err := ld.Wait(ctx); err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	tex, err := ld.Texture(assets.GlobeTexture)
	if errors.Is(err, assets.ErrUnknownAsset) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return tex, nil
}

// parseBackground reads an "R,G,B" triple of 0-255 components.
func parseBackground(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("--bg must be R,G,B with 0-255 components, got %q: %w", s, err)
	}
	return render.RGB(r, g, b), nil
}

// viewer holds the per-session state of the terminal host.
type viewer struct {
	g       *globe.Globe
	spin    *render.Spin
	camera  *render.Camera
	fb      *render.Framebuffer
	globeR  *render.GlobeRenderer
	termR   *render.TerminalRenderer
	hud     *HUD
	src     rng.Source
	log     *slog.Logger
	bg      render.Color
	cameraZ float64

	width, height int
	mouseDown     bool
	lastX, lastY  int
}

func runView(ctx context.Context, root *rootOptions, opts viewOptions) error {
	if opts.fps <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", opts.fps)
	}
	bg, err := parseBackground(opts.bg)
	if err != nil {
		return err
	}

	log, closeLog, err := root.logger()
	if err != nil {
		return err
	}
	defer closeLog()

	mask, err := loadMask(ctx, opts, log)
	if err != nil {
		return err
	}

	g, err := root.newGlobe(log, globe.WithMask(mask))
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	v := &viewer{
		g:       g,
		spin:    render.NewSpin(opts.fps, idleYaw),
		camera:  render.NewCamera(defaultCameraZ),
		termR:   render.NewTerminalRenderer(term, width, height),
		hud:     NewHUD(g.Points().Len(), g.Impacts()),
		src:     root.source(),
		log:     log,
		bg:      bg,
		cameraZ: defaultCameraZ,
	}
	v.camera.LookAt(math3d.Zero3())
	v.resize(width, height)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("view started",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("fps", opts.fps),
	)

	events := term.Events()
	frameDuration := time.Second / time.Duration(opts.fps)
	lastFrame := time.Now()

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				if v.handle(ev) {
					cancel()
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame), 100*time.Millisecond)
		lastFrame = now

		v.g.Advance(dt)
		v.spin.Update()

		if err := v.draw(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}

		if elapsed := time.Since(now); elapsed < frameDuration {
			time.Sleep(frameDuration - elapsed)
		}
	}
}

func (v *viewer) resize(width, height int) {
	v.width, v.height = width, height
	v.termR.Resize(width, height)
	fbWidth, fbHeight := v.termR.FramebufferSize()
	v.fb = render.NewFramebuffer(fbWidth, fbHeight)
	if v.globeR == nil {
		v.globeR = render.NewGlobeRenderer(v.camera, v.fb)
	} else {
		v.globeR.SetFramebuffer(v.fb)
	}
	v.camera.SetAspectRatio(float64(fbWidth) / math.Max(1, float64(fbHeight)))
}

func (v *viewer) setCameraZ(z float64) {
	v.cameraZ = math.Max(minCameraZ, math.Min(maxCameraZ, z))
	v.camera.SetPosition(math3d.V3(0, 0, v.cameraZ))
}

// handle applies one input event and reports whether the viewer should quit.
func (v *viewer) handle(ev uv.Event) bool {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.termR.Erase()
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
			return true
		case ev.MatchString("p"):
			v.g.SetPaused(!v.g.Paused())
			v.log.Debug("pause toggled", slog.Bool("paused", v.g.Paused()))
		case ev.MatchString("r"):
			v.spin.Reset()
			v.setCameraZ(defaultCameraZ)
		case ev.MatchString("w", "up"):
			v.spin.Impulse(-keyImpulse, 0)
		case ev.MatchString("s", "down"):
			v.spin.Impulse(keyImpulse, 0)
		case ev.MatchString("a", "left"):
			v.spin.Impulse(0, -keyImpulse)
		case ev.MatchString("d", "right"):
			v.spin.Impulse(0, keyImpulse)
		case ev.MatchString("space"):
			v.spin.Impulse(
				rng.Range(v.src, -0.1, 0.1),
				rng.Range(v.src, -0.1, 0.1),
			)
		case ev.MatchString("+", "="):
			v.setCameraZ(v.cameraZ - 1)
		case ev.MatchString("-", "_"):
			v.setCameraZ(v.cameraZ + 1)
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			v.hud.Visible = !v.hud.Visible
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			dx := ev.X - v.lastX
			dy := ev.Y - v.lastY
			v.spin.Impulse(float64(dy)*0.01, float64(dx)*0.01)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.setCameraZ(v.cameraZ - 1)
		case uv.MouseWheelDown:
			v.setCameraZ(v.cameraZ + 1)
		}
	}
	return false
}

func (v *viewer) draw() error {
	v.fb.Clear(v.bg)
	v.globeR.ClearDepth()
	stats := v.globeR.Draw(v.g, v.spin.Transform())

	v.termR.Render(v.fb)
	if err := v.termR.Flush(); err != nil {
		return err
	}

	v.hud.UpdateFPS()
	v.hud.Render(v.width, v.height, stats, v.g.Paused())
	return nil
}
