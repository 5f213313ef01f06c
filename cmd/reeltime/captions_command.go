package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reeltime/internal/captions"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	var scenes []string
	var export string
	var output string

	cmd := &cobra.Command{
		Use:   "captions",
		Short: "Estimate caption timing from narration text and clip duration",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			out, issues, err := p.Captions(cmd.Context(), scenes)
			if err != nil {
				return err
			}
			printIssues(cmd.OutOrStdout(), issues)

			if export == "" {
				for _, scene := range out.Scenes {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d segments over %s\n",
						scene.SceneID, scene.SegmentCount, formatSeconds(scene.Duration))
				}
				return nil
			}

			// Exports place each scene's cues on the composition timeline,
			// so offsets come from the computed frame table.
			table, err := p.FrameTable(cmd.Context())
			if err != nil {
				return err
			}
			offsets := make(map[string]float64, len(table.Entries))
			for _, entry := range table.Entries {
				offsets[entry.SceneID] = float64(entry.StartFrame) / float64(table.FPS)
			}

			var document string
			switch export {
			case "srt":
				document = captions.ExportSRT(out.Scenes, offsets)
			case "vtt":
				document = captions.ExportVTT(out.Scenes, offsets)
			default:
				return fmt.Errorf("unknown export format %q (want srt or vtt)", export)
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), document)
				return nil
			}
			if err := os.WriteFile(output, []byte(document), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&scenes, "scene", nil, "Limit to a scene id (repeatable)")
	cmd.Flags().StringVar(&export, "export", "", "Export format: srt or vtt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the exported document to a file")
	return cmd
}
