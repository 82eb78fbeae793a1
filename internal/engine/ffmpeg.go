package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/deps"
	"clipforge/internal/logging"
	"clipforge/internal/services"
)

// stderrTailBytes bounds how much engine output is carried into errors.
const stderrTailBytes = 600

// FFmpeg runs filter graphs through the resolved ffmpeg binary and answers
// duration queries through ffprobe.
type FFmpeg struct {
	ffmpeg        string
	ffprobe       string
	encodeTimeout time.Duration
	probeTimeout  time.Duration
	logger        *slog.Logger
}

// New builds the engine from the capability registry. Returns
// services.ErrEngineUnavailable when either required binary is missing.
func New(cfg *config.Config, registry *deps.Registry, logger *slog.Logger) (*FFmpeg, error) {
	if registry == nil || !registry.EngineAvailable() {
		detail := "ffmpeg or ffprobe not found"
		if registry != nil {
			details := make([]string, 0, 2)
			for _, status := range []deps.Status{registry.FFmpeg(), registry.FFprobe()} {
				if !status.Available {
					details = append(details, status.Detail)
				}
			}
			if len(details) > 0 {
				detail = strings.Join(details, "; ")
			}
		}
		return nil, services.Wrap(services.ErrEngineUnavailable, "", "resolve engine", detail, nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	encodeTimeout := 10 * time.Minute
	probeTimeout := 30 * time.Second
	if cfg != nil {
		encodeTimeout = time.Duration(cfg.Engine.EncodeTimeout) * time.Second
		probeTimeout = time.Duration(cfg.Engine.ProbeTimeout) * time.Second
	}
	return &FFmpeg{
		ffmpeg:        registry.FFmpeg().Command,
		ffprobe:       registry.FFprobe().Command,
		encodeTimeout: encodeTimeout,
		probeTimeout:  probeTimeout,
		logger:        logger.With(logging.String(logging.FieldComponent, "engine")),
	}, nil
}

// Render executes the graph. A non-zero exit is surfaced as an encoding error
// carrying the tail of the engine's stderr.
func (f *FFmpeg) Render(ctx context.Context, graph Graph) error {
	if strings.TrimSpace(graph.Output) == "" {
		return services.Wrap(services.ErrEncoding, "", "render", "graph has no output path", nil)
	}
	if len(graph.Inputs) == 0 {
		return services.Wrap(services.ErrEncoding, "", "render", "graph has no inputs", nil)
	}

	runCtx, cancel := context.WithTimeout(ctx, f.encodeTimeout)
	defer cancel()

	args := graph.args()
	started := time.Now()
	cmd := exec.CommandContext(runCtx, f.ffmpeg, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrEncoding, "", "render", "engine timed out", runCtx.Err())
		}
		// The stderr tail rides on the cause so it reaches logs without
		// leaking scratch paths into caller-facing detail text.
		return services.Wrap(services.ErrEncoding, "", "render", "engine exited with an error",
			fmt.Errorf("%w: %s", err, tail(string(output))))
	}

	f.logger.Debug("graph rendered",
		logging.Int("inputs", len(graph.Inputs)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// Duration reports the container duration of path in seconds.
func (f *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	probeCtx, cancel := context.WithTimeout(ctx, f.probeTimeout)
	defer cancel()

	result, err := Inspect(probeCtx, f.ffprobe, path)
	if err != nil {
		return 0, err
	}
	duration := result.DurationSeconds()
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return 0, fmt.Errorf("ffprobe duration: non-finite value for %s", path)
	}
	return duration, nil
}

func tail(output string) string {
	trimmed := strings.TrimSpace(output)
	if len(trimmed) <= stderrTailBytes {
		return trimmed
	}
	return "..." + trimmed[len(trimmed)-stderrTailBytes:]
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
