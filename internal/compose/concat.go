package compose

import (
	"fmt"
	"strings"

	"clipforge/internal/engine"
)

// Audio is normalized to a fixed format so any input track concatenates and
// trims predictably.
const (
	audioSampleRate    = 44100
	audioChannelLayout = "stereo"
)

// concatGraph joins the segments into one continuous visual stream, in part
// index order, and binds the audio track trimmed to exactly the visual
// timeline length with timestamps reset to zero. The output duration is
// capped at totalDuration so audio and video never drift at the tail.
func concatGraph(segments []Segment, songPath string, totalDuration float64, output string) engine.Graph {
	n := len(segments)
	inputs := make([]engine.Input, 0, n+1)
	var videoLabels strings.Builder
	for _, segment := range segments {
		inputs = append(inputs, engine.Input{Path: segment.Path})
		fmt.Fprintf(&videoLabels, "[%d:v]", len(inputs)-1)
	}
	inputs = append(inputs, engine.Input{Path: songPath})

	filter := fmt.Sprintf(
		"%sconcat=n=%d:v=1:a=0[outv];[%d:a]aformat=sample_fmts=fltp:sample_rates=%d:channel_layouts=%s,atrim=0:%.3f,asetpts=PTS-STARTPTS[outa]",
		videoLabels.String(), n, n, audioSampleRate, audioChannelLayout, totalDuration,
	)

	return engine.Graph{
		Inputs:        inputs,
		FilterComplex: filter,
		Maps:          []string{"[outv]", "[outa]"},
		VideoCodec:    "libx264",
		AudioCodec:    "aac",
		DurationCap:   totalDuration,
		Output:        output,
	}
}
