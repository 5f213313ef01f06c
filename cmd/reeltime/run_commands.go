package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reeltime/internal/pipeline"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check render-readiness of the composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			report, err := p.Preflight(cmd.Context(), strict)
			if err != nil {
				return err
			}
			printIssues(cmd.OutOrStdout(), report.Issues)
			if !report.Pass(strict) {
				return fmt.Errorf("preflight failed: %d errors, %d warnings",
					len(report.Errors()), len(report.Warnings()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "preflight passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings and tighten drift tolerance")
	return cmd
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var scenes []string
	var strict bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: probe, transcribe, align, captions, sync, preflight",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, journal, err := ctx.journaledPipeline()
			if err != nil {
				return err
			}
			defer journal.Close()

			result, err := p.Run(cmd.Context(), pipeline.Options{
				SceneFilter: scenes,
				Strict:      strict,
			})
			if err != nil {
				return err
			}

			printIssues(cmd.OutOrStdout(), result.Report.Issues)
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d errors, %d warnings\n",
				result.RunID, len(result.Report.Errors()), len(result.Report.Warnings()))
			if !result.Passed {
				return fmt.Errorf("pipeline run failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "pipeline run passed")
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&scenes, "scene", nil, "Limit to a scene id (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings and tighten drift tolerance")
	return cmd
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := ctx.journal()
			if err != nil {
				return err
			}
			defer journal.Close()

			recent, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(recent))
			for _, run := range recent {
				finished := "-"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Local().Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{
					run.ID,
					run.Command,
					run.Status,
					fmt.Sprintf("%d", run.ErrorCount),
					fmt.Sprintf("%d", run.WarningCount),
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					finished,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{title: "Run"},
				{title: "Command"},
				{title: "Status"},
				{title: "Errors", right: true},
				{title: "Warnings", right: true},
				{title: "Started"},
				{title: "Finished"},
			}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to show")
	return cmd
}
