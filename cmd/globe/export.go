package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/globe/pkg/models"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		out    string
		warmup time.Duration
		fps    int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a binary glTF snapshot of the globe",
		Long: "export advances the animation by --warmup and writes the point cloud\n" +
			"and the current trails to a .glb file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive, got %d", fps)
			}

			log, closeLog, err := root.logger()
			if err != nil {
				return err
			}
			defer closeLog()

			g, err := root.newGlobe(log)
			if err != nil {
				return err
			}

			// Step like a host would so the snapshot matches what the
			// viewer shows after the same wall time.
			frame := time.Second / time.Duration(fps)
			for elapsed := time.Duration(0); elapsed < warmup; elapsed += frame {
				g.Advance(min(frame, warmup-elapsed))
			}

			if err := models.Export(out, g.Points(), g.Trails()); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			log.Info("snapshot written",
				slog.String("path", out),
				slog.Int("dots", g.Points().Len()),
				slog.Int("trails", g.Impacts()),
				slog.Duration("warmup", warmup),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d dots, %d trails)\n", out, g.Points().Len(), g.Impacts())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "globe.glb", "Output .glb path")
	f.DurationVar(&warmup, "warmup", 2*time.Second, "Animation time to simulate before the snapshot")
	f.IntVar(&fps, "fps", 60, "Simulation steps per second during warmup")
	return cmd
}
