package compose

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"clipforge/internal/artifacts"
	"clipforge/internal/assets"
	"clipforge/internal/config"
	"clipforge/internal/engine"
	"clipforge/internal/fileutil"
	"clipforge/internal/logging"
	"clipforge/internal/rasterize"
	"clipforge/internal/services"
)

// Pipeline turns a validated job into a published artifact. Stages run
// strictly in order; only segment normalization fans out. Scratch files live
// in a per-run directory namespaced by the job identity and are removed when
// the run ends, regardless of outcome.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	engine    engine.Engine
	resolver  *assets.Resolver
	raster    rasterize.Rasterizer
	artifacts *artifacts.Store
	progress  Progress
}

// NewPipeline wires the pipeline's collaborators.
func NewPipeline(
	cfg *config.Config,
	logger *slog.Logger,
	eng engine.Engine,
	resolver *assets.Resolver,
	raster rasterize.Rasterizer,
	store *artifacts.Store,
	progress Progress,
) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	if raster == nil {
		raster = rasterize.Unavailable{}
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger.With(logging.String(logging.FieldComponent, "compose")),
		engine:    eng,
		resolver:  resolver,
		raster:    raster,
		artifacts: store,
		progress:  progress,
	}
}

// Run executes the full composition state machine for one job.
func (p *Pipeline) Run(ctx context.Context, job *Job) (artifacts.Artifact, error) {
	if err := job.Validate(); err != nil {
		return artifacts.Artifact{}, err
	}

	ctx = services.WithJobID(ctx, job.ID)
	logger := logging.WithContext(ctx, p.logger)

	runDir := filepath.Join(p.cfg.Paths.ScratchDir, "job_"+job.ID)
	if err := fileutil.EnsureDir(runDir); err != nil {
		return artifacts.Artifact{}, p.fail(ctx, job, StageResolving,
			services.Wrap(services.ErrResolution, string(StageResolving), "create scratch", "", err))
	}
	defer func() {
		if err := fileutil.RemoveTree(runDir); err != nil {
			logger.Warn("scratch cleanup failed", logging.Error(err))
		}
	}()

	// Resolving
	p.milestone(ctx, logger, job, StageResolving)
	resolved := make([]resolvedPart, len(job.Parts))
	for i, part := range job.Parts {
		dest := filepath.Join(runDir, fmt.Sprintf("part%02d_%s", part.Index, job.ID))
		path, err := p.resolver.Resolve(ctx, part.Source, dest)
		if err != nil {
			return artifacts.Artifact{}, p.fail(ctx, job, StageResolving, err)
		}
		resolved[i] = resolvedPart{Part: part, localPath: path}
	}
	songPath, err := p.resolver.Resolve(ctx, job.Song, filepath.Join(runDir, "song_"+job.ID))
	if err != nil {
		return artifacts.Artifact{}, p.fail(ctx, job, StageResolving, err)
	}
	logoPath := ""
	if job.Logo != nil {
		logoPath, err = p.resolver.Resolve(ctx, job.Logo.Source, filepath.Join(runDir, "logo_"+job.ID))
		if err != nil {
			return artifacts.Artifact{}, p.fail(ctx, job, StageResolving, err)
		}
	}

	// Normalizing: the only parallel unit of work. Concatenation order is
	// part index order, never completion order.
	p.milestone(ctx, logger, job, StageNormalizing)
	segments, err := normalizeParts(ctx, p.engine, resolved, runDir)
	if err != nil {
		return artifacts.Artifact{}, p.fail(ctx, job, StageNormalizing, err)
	}

	// Reconciling: best-effort, never fails the run.
	p.milestone(ctx, logger, job, StageReconciling)
	totalDuration := reconcile(ctx, p.engine, segments, logger)
	logger.Info("timeline reconciled", logging.Float64("total_seconds", totalDuration))

	// Concatenating
	p.milestone(ctx, logger, job, StageConcatenating)
	combined := filepath.Join(runDir, "combined_"+job.ID+".mp4")
	if err := p.engine.Render(ctx, concatGraph(segments, songPath, totalDuration, combined)); err != nil {
		return artifacts.Artifact{}, p.fail(ctx, job, StageConcatenating,
			services.Wrap(services.ErrEncoding, string(StageConcatenating), "concat segments", "", err))
	}

	// Logo overlay, then hook overlay. Order is fixed regardless of which
	// specs the request supplied.
	if job.Logo != nil {
		p.milestone(ctx, logger, job, StageLogoOverlay)
		withLogo := filepath.Join(runDir, "with_logo_"+job.ID+".mp4")
		if err := p.engine.Render(ctx, logoGraph(combined, logoPath, *job.Logo, withLogo)); err != nil {
			return artifacts.Artifact{}, p.fail(ctx, job, StageLogoOverlay,
				services.Wrap(services.ErrEncoding, string(StageLogoOverlay), "overlay logo", "", err))
		}
		if err := fileutil.ReplaceFile(withLogo, combined); err != nil {
			return artifacts.Artifact{}, p.fail(ctx, job, StageLogoOverlay,
				services.Wrap(services.ErrEncoding, string(StageLogoOverlay), "swap output", "", err))
		}
	}

	if job.HasHook() {
		p.applyHook(ctx, logger, job, runDir, combined)
	}

	// Finalizing hands ownership to the lifecycle manager.
	p.milestone(ctx, logger, job, StageFinalizing)
	artifact, err := p.artifacts.Publish(job.ID, combined)
	if err != nil {
		return artifacts.Artifact{}, p.fail(ctx, job, StageFinalizing, err)
	}

	p.milestone(ctx, logger, job, StagePublished)
	return artifact, nil
}

// applyHook runs the hook overlay pass. This is the one deliberately degraded
// path: a missing rasterizer or a render failure skips the overlay instead of
// failing the job, because the base video is still a deliverable product.
func (p *Pipeline) applyHook(ctx context.Context, logger *slog.Logger, job *Job, runDir, combined string) {
	if !p.raster.Available() {
		logger.Info("rasterizer unavailable, skipping hook overlay")
		return
	}
	p.milestone(ctx, logger, job, StageHookOverlay)

	bannerPath := filepath.Join(runDir, "hook_"+job.ID+".png")
	spec := rasterize.Spec{
		Text:   job.Hook.Text,
		Style:  job.Hook.Style,
		Anchor: job.Hook.Position,
		Offset: job.Hook.Offset,
	}
	if err := p.raster.Render(ctx, spec, bannerPath); err != nil {
		logger.Warn("hook rasterization failed, skipping overlay",
			logging.Alert("hook_skipped"),
			logging.Error(err),
		)
		return
	}

	withHook := filepath.Join(runDir, "with_hook_"+job.ID+".mp4")
	if err := p.engine.Render(ctx, hookGraph(combined, bannerPath, *job.Hook, withHook)); err != nil {
		logger.Warn("hook overlay failed, skipping",
			logging.Alert("hook_skipped"),
			logging.Error(err),
		)
		return
	}
	if err := fileutil.ReplaceFile(withHook, combined); err != nil {
		logger.Warn("hook output swap failed, keeping base video",
			logging.Alert("hook_skipped"),
			logging.Error(err),
		)
	}
}

func (p *Pipeline) milestone(ctx context.Context, logger *slog.Logger, job *Job, stage Stage) {
	percent := MilestonePercent(stage)
	p.progress.Milestone(ctx, job.ID, stage, percent)
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String(logging.FieldStage, string(stage)),
		logging.Float64("percent", percent),
	)
}

func (p *Pipeline) fail(ctx context.Context, job *Job, stage Stage, err error) error {
	tagged := services.WithErrorStage(string(stage), err)
	details := services.Details(tagged)
	p.progress.Failed(ctx, job.ID, stage, details.Message)
	logging.WithContext(ctx, p.logger).Error("stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String(logging.FieldStage, string(stage)),
		logging.Error(err),
	)
	return tagged
}
