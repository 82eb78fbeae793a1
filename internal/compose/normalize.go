package compose

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"clipforge/internal/engine"
	"clipforge/internal/services"
)

// Fixed output geometry for the vertical format.
const (
	TargetWidth  = 1080
	TargetHeight = 1920
	FrameRate    = 30
	// ImageSeconds is the nominal duration a still image occupies.
	ImageSeconds = 2.5
)

// Segment is one normalized visual unit, owned by the run that produced it.
type Segment struct {
	Index    int
	Path     string
	Duration float64
}

// coverFitFilter scales preserving aspect ratio until the frame is fully
// covered, center-crops the excess, and resets the sample aspect ratio.
func coverFitFilter() string {
	return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,setsar=1",
		TargetWidth, TargetHeight, TargetWidth, TargetHeight)
}

type resolvedPart struct {
	Part
	localPath string
}

// normalizeParts converts every resolved part into a uniform segment. The ten
// encodes are independent and run concurrently; the call returns only after
// all of them finish (or the context dies), and the result slice is ordered by
// part index regardless of completion order. The first failure by part index
// wins and aborts the run.
func normalizeParts(ctx context.Context, eng engine.Engine, parts []resolvedPart, runDir string) ([]Segment, error) {
	segments := make([]Segment, len(parts))
	errs := make([]error, len(parts))

	var wg sync.WaitGroup
	for i, part := range parts {
		wg.Add(1)
		go func(slot int, part resolvedPart) {
			defer wg.Done()
			segment, err := normalizeOne(ctx, eng, part, runDir)
			if err != nil {
				errs[slot] = err
				return
			}
			segments[slot] = segment
		}(i, part)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return segments, nil
}

func normalizeOne(ctx context.Context, eng engine.Engine, part resolvedPart, runDir string) (Segment, error) {
	output := filepath.Join(runDir, fmt.Sprintf("segment_%02d.mp4", part.Index))

	graph := engine.Graph{
		Inputs:      []engine.Input{{Path: part.localPath, LoopStill: part.Kind == KindImage}},
		VideoFilter: coverFitFilter(),
		VideoCodec:  "libx264",
		PixelFormat: "yuv420p",
		FrameRate:   FrameRate,
		Output:      output,
	}
	if part.Kind == KindImage {
		graph.DurationCap = ImageSeconds
	}

	if err := eng.Render(ctx, graph); err != nil {
		return Segment{}, services.Wrap(services.ErrNormalization, string(StageNormalizing),
			fmt.Sprintf("part %d", part.Index), "segment encode failed", err)
	}
	return Segment{Index: part.Index, Path: output}, nil
}
