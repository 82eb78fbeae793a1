package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type dependencyPayload struct {
	Name        string `json:"name"`
	Command     string `json:"command,omitempty"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

type statusPayload struct {
	Running      bool                `json:"running"`
	PID          int                 `json:"pid"`
	RunDBPath    string              `json:"run_db_path"`
	OutputDir    string              `json:"output_dir"`
	LockFilePath string              `json:"lock_file_path"`
	Dependencies []dependencyPayload `json:"dependencies"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var status statusPayload
			if err := ctx.client().getJSON(cmd.Context(), "/api/status", &status); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			state := "stopped"
			if status.Running {
				state = fmt.Sprintf("running (pid %d)", status.PID)
			}
			fmt.Fprintf(out, "Daemon: %s\n", state)
			fmt.Fprintf(out, "Output dir: %s\n", status.OutputDir)
			fmt.Fprintf(out, "Run database: %s\n", status.RunDBPath)
			fmt.Fprintf(out, "Lock file: %s\n", status.LockFilePath)
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(status.Dependencies))
			for _, dep := range status.Dependencies {
				mark := statusMark(dep.Available || dep.Optional, colorize)
				rows = append(rows, []string{dep.Name, mark, dep.Command, dep.Detail})
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
