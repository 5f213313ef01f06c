package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSynthesizeCommand(ctx *commandContext) *cobra.Command {
	var scenes []string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "synthesize",
		Short: "Generate narration audio for scenes missing a clip",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			issues, err := p.Synthesize(cmd.Context(), scenes, overwrite)
			if err != nil {
				return err
			}
			printIssues(cmd.OutOrStdout(), issues)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&scenes, "scene", nil, "Limit to a scene id (repeatable)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Regenerate clips that already exist")
	return cmd
}

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var scenes []string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Measure clip durations with ffprobe and persist the metadata artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			meta, issues, err := p.Probe(cmd.Context(), scenes)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(meta.Scenes))
			for _, entry := range meta.Scenes {
				status := "ok"
				if entry.Err != "" {
					status = entry.Err
				}
				rows = append(rows, []string{
					entry.SceneID,
					formatSeconds(entry.DurationSeconds),
					fmt.Sprintf("%d", entry.DurationFrames),
					status,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{title: "Scene"},
				{title: "Duration", right: true},
				{title: "Frames", right: true},
				{title: "Status"},
			}, rows))
			printIssues(cmd.OutOrStdout(), issues)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&scenes, "scene", nil, "Limit to a scene id (repeatable)")
	return cmd
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var scenes []string

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe clips with word-level timestamps",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			out, err := p.Transcribe(cmd.Context(), scenes)
			if err != nil {
				return err
			}
			failed := 0
			for _, scene := range out.Scenes {
				if scene.Err != "" {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", scene.SceneID, scene.Err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transcribed %d scenes (%d failed)\n",
				len(out.Scenes)-failed, failed)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&scenes, "scene", nil, "Limit to a scene id (repeatable)")
	return cmd
}

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var scenes []string

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Align visual panels against the transcription",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			out, issues, err := p.Align(cmd.Context(), scenes)
			if err != nil {
				return err
			}

			rows := make([][]string, 0)
			for _, scene := range out.Scenes {
				for _, panel := range scene.Panels {
					rows = append(rows, []string{
						scene.SceneID,
						panel.Text,
						panel.MatchType,
						fmt.Sprintf("%.2f", panel.Confidence),
						fmt.Sprintf("%d-%d", panel.StartFrame, panel.EndFrame),
					})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{title: "Scene"},
				{title: "Panel"},
				{title: "Match"},
				{title: "Confidence", right: true},
				{title: "Frames", right: true},
			}, rows))
			printIssues(cmd.OutOrStdout(), issues)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&scenes, "scene", nil, "Limit to a scene id (repeatable)")
	return cmd
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Compute the frame table and patch the render timing source",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			table, changed, err := p.Sync(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(table.Entries))
			for _, entry := range table.Entries {
				rows = append(rows, []string{
					entry.SceneID,
					formatSeconds(entry.DurationSeconds),
					fmt.Sprintf("%d", entry.AudioFrames),
					fmt.Sprintf("%d", entry.TotalFrames),
					fmt.Sprintf("%d", entry.StartFrame),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{title: "Scene"},
				{title: "Audio", right: true},
				{title: "Audio Frames", right: true},
				{title: "Total Frames", right: true},
				{title: "Start", right: true},
			}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "composition: %d frames (%s)\n",
				table.TotalFrames(), formatSeconds(table.TotalSeconds()))
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "render timing updated")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "render timing already up to date")
			}
			printIssues(cmd.OutOrStdout(), table.Skipped)
			return nil
		},
	}
	return cmd
}
