// globe - animated dotted globe in the terminal.
//
// Points sampled on a Fibonacci sphere slowly rotate while impacts arc
// between random locations and ripple outward where they land.
//
// Controls (view):
//
//	Mouse drag  - Spin the globe
//	W/S/A/D     - Pitch and yaw impulses
//	Space       - Random spin
//	+/-         - Zoom
//	P           - Pause/resume impacts
//	R           - Reset view
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/globe/internal/logging"
	"github.com/taigrr/globe/pkg/globe"
	"github.com/taigrr/globe/pkg/rng"
)

// rootOptions are flags shared by every subcommand.
type rootOptions struct {
	logFile   string
	logLevel  string
	logFormat string
	dots      int
	impacts   int
	seed      uint64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	def := globe.DefaultConfig()

	root := &cobra.Command{
		Use:   "globe",
		Short: "Animated dotted globe with arcing impacts",
		Long: "globe renders a Fibonacci-sampled point sphere in the terminal while\n" +
			"impacts arc between random locations and pulse where they land.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logFile, "log-file", "", "Write logs to this file (default: discard)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	pf.IntVar(&opts.dots, "dots", def.DotCount, "Number of points on the sphere")
	pf.IntVar(&opts.impacts, "impacts", def.Impacts.Slots, "Number of concurrent impacts")
	pf.Uint64Var(&opts.seed, "seed", 0, "Random seed (0 picks one at startup)")

	root.AddCommand(newViewCmd(opts), newExportCmd(opts))
	return root
}

// logger opens the configured log sink.
func (o *rootOptions) logger() (*slog.Logger, func() error, error) {
	return logging.New(logging.Config{
		Level:  o.logLevel,
		Format: o.logFormat,
		Path:   o.logFile,
	})
}

// config returns the globe configuration selected by the flags.
func (o *rootOptions) config() globe.Config {
	cfg := globe.DefaultConfig()
	cfg.DotCount = o.dots
	cfg.Impacts.Slots = o.impacts
	return cfg
}

func (o *rootOptions) source() rng.Source {
	if o.seed == 0 {
		return rng.Default()
	}
	return rng.New(o.seed)
}

// newGlobe builds a globe from the flags, wrapping config errors for the CLI.
func (o *rootOptions) newGlobe(log *slog.Logger, extra ...globe.Option) (*globe.Globe, error) {
	opts := append([]globe.Option{
		globe.WithSource(o.source()),
		globe.WithLogger(log),
	}, extra...)

	g, err := globe.New(o.config(), opts...)
	if err != nil {
		return nil, fmt.Errorf("create globe: %w", err)
	}
	return g, nil
}
