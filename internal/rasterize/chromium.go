package rasterize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/deps"
	"clipforge/internal/logging"
)

const renderTimeout = 60 * time.Second

// Chromium renders banners by screenshotting a transparent HTML canvas with a
// headless browser.
type Chromium struct {
	binary   string
	fontPath string
	logger   *slog.Logger
}

// NewFromRegistry returns a chromium-backed rasterizer when the binary
// resolved, and the degraded Unavailable implementation otherwise.
func NewFromRegistry(cfg *config.Config, registry *deps.Registry, logger *slog.Logger) Rasterizer {
	status := registry.Rasterizer()
	if !status.Available {
		return Unavailable{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	fontPath := ""
	if cfg != nil {
		fontPath = cfg.Hooks.FontPath
	}
	return &Chromium{
		binary:   status.Command,
		fontPath: fontPath,
		logger:   logger.With(logging.String(logging.FieldComponent, "rasterize")),
	}
}

func (c *Chromium) Available() bool { return true }

// Render writes the banner canvas to outPath as a transparent PNG.
func (c *Chromium) Render(ctx context.Context, spec Spec, outPath string) error {
	if strings.TrimSpace(spec.Text) == "" {
		return fmt.Errorf("rasterize: empty banner text")
	}

	htmlPath := outPath + ".html"
	if err := os.WriteFile(htmlPath, []byte(buildDocument(spec, c.fontPath)), 0o644); err != nil {
		return fmt.Errorf("rasterize: write canvas: %w", err)
	}
	defer os.Remove(htmlPath)

	runCtx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	args := []string{
		"--headless=new",
		"--disable-gpu",
		"--no-sandbox",
		"--hide-scrollbars",
		"--default-background-color=00000000",
		fmt.Sprintf("--window-size=%d,%d", canvasWidth, canvasHeight),
		"--screenshot=" + outPath,
		"file://" + htmlPath,
	}
	cmd := exec.CommandContext(runCtx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("rasterize: %w: %s", err, strings.TrimSpace(string(output)))
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("rasterize: backend produced no image")
	}

	c.logger.Debug("banner rendered", logging.Int64("bytes", info.Size()))
	return nil
}
