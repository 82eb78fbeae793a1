package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReapCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reap",
		Short: "Reclaim expired artifacts now",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Reclaimed int `json:"reclaimed"`
			}
			if err := ctx.client().postJSON(cmd.Context(), "/api/reap", nil, &result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reclaimed %d expired artifact(s)\n", result.Reclaimed)
			return nil
		},
	}
}
