package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type submitManifestPart struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
}

type submitManifestLogo struct {
	Source   string `json:"source"`
	SizePct  int    `json:"size_pct"`
	Position string `json:"position"`
}

type submitManifestHook struct {
	Text     string `json:"text"`
	Style    int    `json:"style"`
	Position string `json:"position"`
	Offset   int    `json:"offset"`
}

type submitManifest struct {
	Parts []submitManifestPart `json:"parts"`
	Song  string               `json:"song"`
	Logo  *submitManifestLogo  `json:"logo,omitempty"`
	Hook  *submitManifestHook  `json:"hook,omitempty"`
}

type submitReply struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	JobURL   string `json:"job_url"`
	VideoURL string `json:"video_url"`
}

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <manifest.json>",
		Short: "Submit a composition job from a manifest file",
		Long: `Submit reads a JSON manifest describing the ten ordered parts, the audio
track, and the optional logo and hook overlays, then queues a composition run
on the daemon.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}
			var manifest submitManifest
			if err := json.Unmarshal(payload, &manifest); err != nil {
				return fmt.Errorf("parse manifest: %w", err)
			}

			var reply submitReply
			if err := ctx.client().postJSON(cmd.Context(), "/api/videos", manifest, &reply); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job queued: %s\n", reply.ID)
			fmt.Fprintf(out, "Status: %s\n", reply.JobURL)
			fmt.Fprintf(out, "Video:  %s (available for 15 minutes once published)\n", reply.VideoURL)
			return nil
		},
	}
}
