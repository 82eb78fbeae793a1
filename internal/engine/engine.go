package engine

import (
	"context"
)

// Engine is the narrow encoding capability the pipeline depends on: render a
// declarative filter graph to a file, and inspect a file's duration. Which
// binary provides it is a deployment concern resolved once at startup.
type Engine interface {
	Render(ctx context.Context, graph Graph) error
	Duration(ctx context.Context, path string) (float64, error)
}

// Input describes one graph input and the options applied ahead of it.
type Input struct {
	Path string
	// LoopStill instructs the engine to loop a single still frame so a
	// duration cap turns an image into a fixed-length segment.
	LoopStill bool
}

// Graph is a declarative description of one engine invocation: inputs, the
// filter to apply, stream mapping, codecs, and the output file.
type Graph struct {
	Inputs        []Input
	VideoFilter   string
	FilterComplex string
	Maps          []string
	VideoCodec    string
	AudioCodec    string
	PixelFormat   string
	FrameRate     int
	// DurationCap bounds the output duration in seconds. Zero means uncapped.
	DurationCap float64
	Output      string
}

func (g Graph) args() []string {
	args := make([]string, 0, 16+4*len(g.Inputs))
	args = append(args, "-hide_banner", "-loglevel", "error", "-y")
	for _, input := range g.Inputs {
		if input.LoopStill {
			args = append(args, "-loop", "1")
		}
		args = append(args, "-i", input.Path)
	}
	if g.FilterComplex != "" {
		args = append(args, "-filter_complex", g.FilterComplex)
	} else if g.VideoFilter != "" {
		args = append(args, "-vf", g.VideoFilter)
	}
	for _, m := range g.Maps {
		args = append(args, "-map", m)
	}
	if g.VideoCodec != "" {
		args = append(args, "-c:v", g.VideoCodec)
	}
	if g.AudioCodec != "" {
		args = append(args, "-c:a", g.AudioCodec)
	}
	if g.PixelFormat != "" {
		args = append(args, "-pix_fmt", g.PixelFormat)
	}
	if g.FrameRate > 0 {
		args = append(args, "-r", itoa(g.FrameRate))
	}
	if g.DurationCap > 0 {
		args = append(args, "-t", formatSeconds(g.DurationCap))
	}
	args = append(args, g.Output)
	return args
}
