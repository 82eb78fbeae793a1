package compose

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipforge/internal/engine"
	"clipforge/internal/services"
)

func resolvedParts(dir string) []resolvedPart {
	parts := make([]resolvedPart, PartCount)
	for i := range parts {
		kind := KindImage
		ext := ".png"
		if i%2 == 1 {
			kind = KindClip
			ext = ".mp4"
		}
		parts[i] = resolvedPart{
			Part:      Part{Index: i, Kind: kind, Source: "/src"},
			localPath: filepath.Join(dir, fmt.Sprintf("part%02d%s", i, ext)),
		}
	}
	return parts
}

func TestNormalizePartsGraphShape(t *testing.T) {
	dir := t.TempDir()
	eng := &fakeEngine{}

	segments, err := normalizeParts(context.Background(), eng, resolvedParts(dir), dir)
	if err != nil {
		t.Fatalf("normalizeParts() = %v", err)
	}
	if len(segments) != PartCount {
		t.Fatalf("segments = %d, want %d", len(segments), PartCount)
	}
	for i, segment := range segments {
		if segment.Index != i {
			t.Errorf("segment %d carries index %d", i, segment.Index)
		}
		if want := filepath.Join(dir, fmt.Sprintf("segment_%02d.mp4", i)); segment.Path != want {
			t.Errorf("segment %d path = %q, want %q", i, segment.Path, want)
		}
	}

	for _, graph := range eng.recorded() {
		if !strings.Contains(graph.VideoFilter, "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920") {
			t.Errorf("filter %q is not the cover-fit chain", graph.VideoFilter)
		}
		if graph.FrameRate != FrameRate {
			t.Errorf("frame rate = %d, want %d", graph.FrameRate, FrameRate)
		}
		if graph.PixelFormat != "yuv420p" {
			t.Errorf("pixel format = %q, want yuv420p", graph.PixelFormat)
		}
		isImage := strings.HasSuffix(graph.Inputs[0].Path, ".png")
		if graph.Inputs[0].LoopStill != isImage {
			t.Errorf("input %q LoopStill = %v", graph.Inputs[0].Path, graph.Inputs[0].LoopStill)
		}
		if isImage && graph.DurationCap != ImageSeconds {
			t.Errorf("image segment cap = %v, want %v", graph.DurationCap, ImageSeconds)
		}
		if !isImage && graph.DurationCap != 0 {
			t.Errorf("clip segment cap = %v, want uncapped", graph.DurationCap)
		}
	}
}

func TestNormalizePartsOrderedDespiteCompletionOrder(t *testing.T) {
	dir := t.TempDir()
	// Earlier parts finish last.
	eng := &fakeEngine{
		renderDelay: func(graph engine.Graph) time.Duration {
			var index int
			fmt.Sscanf(filepath.Base(graph.Output), "segment_%02d.mp4", &index)
			return time.Duration(PartCount-index) * 3 * time.Millisecond
		},
	}

	segments, err := normalizeParts(context.Background(), eng, resolvedParts(dir), dir)
	if err != nil {
		t.Fatalf("normalizeParts() = %v", err)
	}
	for i, segment := range segments {
		if segment.Index != i {
			t.Fatalf("segments out of order: position %d holds index %d", i, segment.Index)
		}
	}
}

func TestNormalizePartsFirstFailureByIndexWins(t *testing.T) {
	dir := t.TempDir()
	eng := &fakeEngine{
		renderErr: func(graph engine.Graph) error {
			if strings.Contains(graph.Output, "segment_03") || strings.Contains(graph.Output, "segment_07") {
				return errors.New("encoder exited 1")
			}
			return nil
		},
	}

	_, err := normalizeParts(context.Background(), eng, resolvedParts(dir), dir)
	if !errors.Is(err, services.ErrNormalization) {
		t.Fatalf("normalizeParts() = %v, want ErrNormalization", err)
	}
	if !strings.Contains(err.Error(), "part 3") {
		t.Errorf("error %q should name the lowest-index failure", err)
	}
}
