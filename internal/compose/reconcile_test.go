package compose

import (
	"context"
	"errors"
	"math"
	"testing"

	"clipforge/internal/logging"
)

func TestReconcileSumsProbedDurations(t *testing.T) {
	eng := &fakeEngine{durations: map[string]float64{
		"a.mp4": 2.5,
		"b.mp4": 4.1,
		"c.mp4": 1.2,
	}}
	segments := []Segment{{Index: 0, Path: "a.mp4"}, {Index: 1, Path: "b.mp4"}, {Index: 2, Path: "c.mp4"}}

	total := reconcile(context.Background(), eng, segments, logging.NewNop())

	if diff := math.Abs(total - 7.8); diff > 1e-9 {
		t.Fatalf("total = %v, want 7.8", total)
	}
	if segments[1].Duration != 4.1 {
		t.Errorf("segment 1 duration = %v, want probed 4.1", segments[1].Duration)
	}
}

func TestReconcileFallsBackOnProbeFailure(t *testing.T) {
	eng := &fakeEngine{
		durations:    map[string]float64{"a.mp4": 2.5},
		durationErrs: map[string]error{"b.mp4": errors.New("probe crashed")},
	}
	segments := []Segment{{Index: 0, Path: "a.mp4"}, {Index: 1, Path: "b.mp4"}}

	total := reconcile(context.Background(), eng, segments, logging.NewNop())

	if diff := math.Abs(total - 5.5); diff > 1e-9 {
		t.Fatalf("total = %v, want 2.5 + 3.0 fallback", total)
	}
	if segments[1].Duration != FallbackSegmentSeconds {
		t.Errorf("segment 1 duration = %v, want fallback %v", segments[1].Duration, FallbackSegmentSeconds)
	}
}

func TestReconcileRejectsNonFiniteDurations(t *testing.T) {
	eng := &fakeEngine{durations: map[string]float64{
		"nan.mp4":  math.NaN(),
		"inf.mp4":  math.Inf(1),
		"zero.mp4": 0,
	}}
	segments := []Segment{{Index: 0, Path: "nan.mp4"}, {Index: 1, Path: "inf.mp4"}, {Index: 2, Path: "zero.mp4"}}

	total := reconcile(context.Background(), eng, segments, logging.NewNop())

	if diff := math.Abs(total - 3*FallbackSegmentSeconds); diff > 1e-9 {
		t.Fatalf("total = %v, want all segments at fallback", total)
	}
}
