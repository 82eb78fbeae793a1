package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"clipforge/internal/artifacts"
	"clipforge/internal/assets"
	"clipforge/internal/compose"
	"clipforge/internal/config"
	"clipforge/internal/deps"
	"clipforge/internal/engine"
	"clipforge/internal/jobs"
	"clipforge/internal/logging"
	"clipforge/internal/preflight"
	"clipforge/internal/rasterize"
)

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	registry  *deps.Registry
	runs      *jobs.Store
	artifacts *artifacts.Store
	pipeline  *compose.Pipeline
	api       *apiServer

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	RunDBPath    string
	OutputDir    string
	LockFilePath string
	Dependencies []deps.Status
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || logger == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	registry := deps.NewRegistry(cfg)

	eng, err := engine.New(cfg, registry, logger)
	if err != nil {
		return nil, err
	}

	store, err := artifacts.NewStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	runs, err := jobs.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}

	pipeline := compose.NewPipeline(
		cfg,
		logger,
		eng,
		assets.NewResolver(cfg, logger),
		rasterize.NewFromRegistry(cfg, registry, logger),
		store,
		jobs.NewTracker(runs, logger),
	)

	lockPath := filepath.Join(cfg.Paths.LogDir, "clipforged.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logger.With(logging.String(logging.FieldComponent, "daemon")),
		registry:  registry,
		runs:      runs,
		artifacts: store,
		pipeline:  pipeline,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	d.api, err = newAPIServer(cfg, d, logger)
	if err != nil {
		_ = runs.Close()
		return nil, err
	}
	return d, nil
}

// Start acquires the daemon lock, verifies the environment, and launches the
// API server and the background reaper.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another clipforged instance is already running")
	}

	results := preflight.RunAll(ctx, d.cfg, d.registry)
	for _, result := range results {
		if result.Passed {
			d.logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
			)
			continue
		}
		d.logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
	if !preflight.AllPassed(results) {
		_ = d.lock.Unlock()
		return errors.New("preflight checks failed")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if d.api != nil {
		if err := d.api.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.wg.Add(1)
	go d.reapLoop(d.ctx)

	d.running.Store(true)
	d.logger.Info("clipforged started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock. In-flight
// composition runs are cancelled through the shared context.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("clipforged stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.runs != nil {
		return d.runs.Close()
	}
	return nil
}

// Submit registers a run record and executes the pipeline in the background.
// The job itself is never persisted; only its observable record is.
func (d *Daemon) Submit(ctx context.Context, job *compose.Job) (*jobs.Record, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	record, err := d.runs.Create(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("create run record: %w", err)
	}

	runCtx := d.ctx
	if runCtx == nil {
		runCtx = context.Background()
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		artifact, runErr := d.pipeline.Run(runCtx, job)
		if runErr != nil {
			// The pipeline already recorded the failure through its
			// progress sink.
			return
		}
		if err := d.runs.MarkPublished(runCtx, job.ID, artifact.Name, artifact.ExpiresAt); err != nil {
			d.logger.Warn("publish record update failed",
				logging.String(logging.FieldJobID, job.ID),
				logging.Error(err),
			)
		}
	}()
	return record, nil
}

// GetRun fetches one run record. Missing records return nil.
func (d *Daemon) GetRun(ctx context.Context, id string) (*jobs.Record, error) {
	return d.runs.Get(ctx, id)
}

// ListRuns returns the most recent run records.
func (d *Daemon) ListRuns(ctx context.Context, limit int) ([]*jobs.Record, error) {
	return d.runs.List(ctx, limit)
}

// Artifacts exposes the artifact store for serving and reclamation.
func (d *Daemon) Artifacts() *artifacts.Store {
	return d.artifacts
}

// APIAddr returns the bound API address once the daemon has started.
func (d *Daemon) APIAddr() string {
	if d.api == nil || d.api.listener == nil {
		return ""
	}
	return d.api.listener.Addr().String()
}

// ReapNow runs one reclamation sweep immediately.
func (d *Daemon) ReapNow(ctx context.Context) (int, error) {
	return d.artifacts.Reap(ctx)
}

func (d *Daemon) reapLoop(ctx context.Context) {
	defer d.wg.Done()

	interval := time.Duration(d.cfg.Reaper.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reclaimed, err := d.artifacts.Reap(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Warn("reap sweep failed", logging.Error(err))
				continue
			}
			if reclaimed > 0 {
				d.logger.Info("reap sweep finished", logging.Int("reclaimed", reclaimed))
			}
		}
	}
}

// Status returns the current daemon status.
func (d *Daemon) Status(context.Context) Status {
	return Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		RunDBPath:    d.runs.Path(),
		OutputDir:    d.artifacts.Dir(),
		LockFilePath: d.lockPath,
		Dependencies: d.registry.All(),
	}
}
