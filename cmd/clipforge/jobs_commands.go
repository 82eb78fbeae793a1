package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"clipforge/internal/jobs"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List recent composition runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload struct {
				Jobs []*jobs.Record `json:"jobs"`
			}
			path := fmt.Sprintf("/api/jobs?limit=%d", limit)
			if err := ctx.client().getJSON(cmd.Context(), path, &payload); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(payload.Jobs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(payload.Jobs))
			for _, record := range payload.Jobs {
				rows = append(rows, []string{
					record.ID,
					string(record.Status),
					record.Stage,
					fmt.Sprintf("%.0f%%", record.Percent),
					record.ArtifactName,
					record.UpdatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Stage", "Progress", "Artifact", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	return cmd
}

func newJobCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "job <id>",
		Short: "Show one composition run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var record jobs.Record
			if err := ctx.client().getJSON(cmd.Context(), "/api/jobs/"+args[0], &record); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:       %s\n", record.ID)
			fmt.Fprintf(out, "Status:   %s\n", record.Status)
			if record.Stage != "" {
				fmt.Fprintf(out, "Stage:    %s\n", record.Stage)
			}
			fmt.Fprintf(out, "Progress: %.0f%%\n", record.Percent)
			if record.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:    %s\n", record.ErrorMessage)
			}
			if record.ArtifactName != "" {
				fmt.Fprintf(out, "Artifact: %s\n", record.ArtifactName)
			}
			if record.ExpiresAt != nil {
				fmt.Fprintf(out, "Expires:  %s\n", record.ExpiresAt.Local().Format(time.DateTime))
			}
			fmt.Fprintf(out, "Created:  %s\n", record.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(out, "Updated:  %s\n", record.UpdatedAt.Local().Format(time.DateTime))
			return nil
		},
	}
}
