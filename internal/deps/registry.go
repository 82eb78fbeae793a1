package deps

import (
	"sync"

	"clipforge/internal/config"
)

// Registry resolves the external capabilities once and exposes read-only
// accessors. Stages never probe for binaries themselves; they ask the registry
// built at startup.
type Registry struct {
	once sync.Once
	cfg  *config.Config

	ffmpeg    Status
	ffprobe   Status
	rasterize Status
}

// NewRegistry builds a lazy registry for the configured binaries. Resolution
// happens on first access and is memoized for the process lifetime.
func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg}
}

func (r *Registry) resolve() {
	r.once.Do(func() {
		ffmpeg := "ffmpeg"
		ffprobe := "ffprobe"
		chromium := ""
		if r.cfg != nil {
			ffmpeg = r.cfg.Engine.FFmpeg
			ffprobe = r.cfg.Engine.FFprobe
			if r.cfg.Hooks.Enabled {
				chromium = r.cfg.Hooks.Chromium
			}
		}
		statuses := CheckBinaries([]Requirement{
			{Name: "FFmpeg", Command: ffmpeg, Description: "Encodes, concatenates, and overlays video"},
			{Name: "FFprobe", Command: ffprobe, Description: "Inspects segment durations"},
			{Name: "Chromium", Command: chromium, Description: "Rasterizes text hook overlays", Optional: true},
		})
		r.ffmpeg = statuses[0]
		r.ffprobe = statuses[1]
		r.rasterize = statuses[2]
	})
}

// FFmpeg reports the resolved encoding engine binary.
func (r *Registry) FFmpeg() Status {
	r.resolve()
	return r.ffmpeg
}

// FFprobe reports the resolved inspection binary.
func (r *Registry) FFprobe() Status {
	r.resolve()
	return r.ffprobe
}

// Rasterizer reports the resolved hook rasterizer binary. Optional: an
// unavailable rasterizer degrades the hook pass, it never fails a job.
func (r *Registry) Rasterizer() Status {
	r.resolve()
	return r.rasterize
}

// EngineAvailable reports whether both required engine binaries resolved.
func (r *Registry) EngineAvailable() bool {
	r.resolve()
	return r.ffmpeg.Available && r.ffprobe.Available
}

// All returns every tracked dependency status for display.
func (r *Registry) All() []Status {
	r.resolve()
	return []Status{r.ffmpeg, r.ffprobe, r.rasterize}
}
