package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"clipforge/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external binary dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			registry := deps.NewRegistry(cfg)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			rows := make([][]string, 0, 3)
			for _, status := range registry.All() {
				detail := status.Detail
				if status.Available {
					detail = status.Description
				}
				rows = append(rows, []string{
					status.Name,
					statusMark(status.Available || status.Optional, colorize),
					status.Command,
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Dependency", "State", "Command", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
