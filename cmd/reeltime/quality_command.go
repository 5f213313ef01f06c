package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reeltime/internal/audiometa"
	"reeltime/internal/script"
)

// quality re-reviews the stored metadata without re-probing anything.
func newQualityCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Review stored audio metadata for pacing and duration anomalies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			s, err := script.Load(cfg.Project.ScriptPath)
			if err != nil {
				return err
			}
			meta, err := audiometa.NewStore(cfg.Project.ArtifactsDir).Load()
			if err != nil {
				return err
			}
			if meta == nil {
				return fmt.Errorf("audio metadata artifact missing; run probe first")
			}

			issues := audiometa.Review(meta.Scenes, s.Scenes, audiometa.Thresholds{
				MinSceneSeconds:   cfg.Validation.MinSceneSeconds,
				MaxSceneSeconds:   cfg.Validation.MaxSceneSeconds,
				MinCharsPerSecond: cfg.Validation.MinCharsPerSecond,
				MaxCharsPerSecond: cfg.Validation.MaxCharsPerSecond,
			})
			if len(issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no quality findings")
				return nil
			}
			printIssues(cmd.OutOrStdout(), issues)
			return nil
		},
	}
	return cmd
}
