package compose

import "context"

// Stage names the steps of a composition run. A run moves strictly forward:
// Resolving → Normalizing → Reconciling → Concatenating → (LogoOverlay)? →
// (HookOverlay)? → Finalizing → Published, with any stage before Finalizing
// able to transition to Failed.
type Stage string

const (
	StageResolving     Stage = "resolving"
	StageNormalizing   Stage = "normalizing"
	StageReconciling   Stage = "reconciling"
	StageConcatenating Stage = "concatenating"
	StageLogoOverlay   Stage = "logo-overlay"
	StageHookOverlay   Stage = "hook-overlay"
	StageFinalizing    Stage = "finalizing"
	StagePublished     Stage = "published"
)

// milestonePercent maps each stage entry to the coarse progress value reported
// to observers. The engine exposes no incremental progress, so these fixed
// checkpoints are all a caller ever sees.
var milestonePercent = map[Stage]float64{
	StageResolving:     10,
	StageNormalizing:   30,
	StageReconciling:   45,
	StageConcatenating: 60,
	StageLogoOverlay:   75,
	StageHookOverlay:   85,
	StageFinalizing:    95,
	StagePublished:     100,
}

// MilestonePercent returns the progress value associated with entering stage.
func MilestonePercent(stage Stage) float64 {
	return milestonePercent[stage]
}

// Progress receives coarse milestone updates for a run. Each update overwrites
// the previous one; milestones are polled, not streamed.
type Progress interface {
	Milestone(ctx context.Context, jobID string, stage Stage, percent float64)
	Failed(ctx context.Context, jobID string, stage Stage, message string)
}

// NopProgress discards all updates.
type NopProgress struct{}

func (NopProgress) Milestone(context.Context, string, Stage, float64) {}

func (NopProgress) Failed(context.Context, string, Stage, string) {}
