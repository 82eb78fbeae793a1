package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clipforge/internal/config"
	"clipforge/internal/fileutil"
	"clipforge/internal/logging"
	"clipforge/internal/services"
)

// Resolver normalizes heterogeneous asset references into files on scratch
// storage. Three reference forms are supported: inline data URLs, remote
// http(s) URLs, and rooted paths under the configured public directory.
type Resolver struct {
	client    *http.Client
	publicDir string
	maxBytes  int64
	logger    *slog.Logger
}

// NewResolver builds a resolver using the configured fetch limits.
func NewResolver(cfg *config.Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := 30 * time.Second
	maxBytes := int64(256 << 20)
	publicDir := ""
	if cfg != nil {
		timeout = time.Duration(cfg.Resolver.FetchTimeout) * time.Second
		maxBytes = cfg.Resolver.MaxFetchBytes
		publicDir = cfg.Paths.PublicDir
	}
	return &Resolver{
		client:    &http.Client{Timeout: timeout},
		publicDir: publicDir,
		maxBytes:  maxBytes,
		logger:    logger.With(logging.String(logging.FieldComponent, "assets")),
	}
}

// Resolve materializes ref as a local file. dest is the target path without
// extension; the chosen extension (from the declared or inferred MIME type)
// is appended and the final path returned. Exactly one file is written per
// call and an existing path is never overwritten.
func (r *Resolver) Resolve(ctx context.Context, ref, dest string) (string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", services.Wrap(services.ErrResolution, "", "resolve", "empty asset reference", nil)
	case strings.HasPrefix(ref, "data:"):
		return r.resolveInline(ref, dest)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return r.resolveRemote(ctx, ref, dest)
	case strings.HasPrefix(ref, "/"):
		return r.resolveLocal(ref, dest)
	default:
		return "", services.Wrap(services.ErrResolution, "", "resolve", fmt.Sprintf("unrecognized asset reference scheme %q", schemeOf(ref)), nil)
	}
}

func (r *Resolver) resolveInline(ref, dest string) (string, error) {
	parts := strings.SplitN(ref, "base64,", 2)
	if len(parts) < 2 {
		return "", services.Wrap(services.ErrResolution, "", "decode inline asset", "data URL is not base64 encoded", nil)
	}
	mimeType := ""
	if meta := strings.SplitN(parts[0], ":", 2); len(meta) == 2 {
		mimeType = strings.SplitN(meta[1], ";", 2)[0]
	}

	payload, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", services.Wrap(services.ErrResolution, "", "decode inline asset", "invalid base64 payload", err)
	}
	if int64(len(payload)) > r.maxBytes {
		return "", services.Wrap(services.ErrResolution, "", "decode inline asset", "payload exceeds size limit", nil)
	}

	path := dest + extensionFor(mimeType)
	if err := writeExclusive(path, payload); err != nil {
		return "", services.Wrap(services.ErrResolution, "", "write inline asset", "", err)
	}
	return path, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, ref, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return "", services.Wrap(services.ErrResolution, "", "fetch remote asset", "", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", services.Wrap(services.ErrResolution, "", "fetch remote asset", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", services.Wrap(services.ErrResolution, "", "fetch remote asset", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return "", services.Wrap(services.ErrResolution, "", "fetch remote asset", "read body", err)
	}
	if int64(len(payload)) > r.maxBytes {
		return "", services.Wrap(services.ErrResolution, "", "fetch remote asset", "response exceeds size limit", nil)
	}

	contentType := strings.SplitN(resp.Header.Get("Content-Type"), ";", 2)[0]
	path := dest + extensionFor(strings.TrimSpace(contentType))
	if err := writeExclusive(path, payload); err != nil {
		return "", services.Wrap(services.ErrResolution, "", "write remote asset", "", err)
	}

	r.logger.Debug("remote asset fetched", logging.Int("bytes", len(payload)))
	return path, nil
}

func (r *Resolver) resolveLocal(ref, dest string) (string, error) {
	if r.publicDir == "" {
		return "", services.Wrap(services.ErrResolution, "", "resolve local asset", "no public directory configured", nil)
	}
	source := filepath.Join(r.publicDir, filepath.Clean("/"+ref))
	if !strings.HasPrefix(source, r.publicDir+string(filepath.Separator)) {
		return "", services.Wrap(services.ErrResolution, "", "resolve local asset", "reference escapes public directory", nil)
	}
	info, err := os.Stat(source)
	if err != nil || info.IsDir() {
		return "", services.Wrap(services.ErrResolution, "", "resolve local asset", "file does not exist", err)
	}

	ext := filepath.Ext(source)
	if ext == "" {
		ext = ".mp4"
	}
	path := dest + ext
	if _, err := os.Stat(path); err == nil {
		return "", services.Wrap(services.ErrResolution, "", "copy local asset", "destination already exists", nil)
	}
	if err := fileutil.CopyFile(source, path); err != nil {
		return "", services.Wrap(services.ErrResolution, "", "copy local asset", "", err)
	}
	return path, nil
}

// extensionFor picks a file extension from a MIME type. Ambiguous image types
// default to jpg; everything else defaults to the pipeline's video container.
func extensionFor(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(mimeType, "png"):
		return ".png"
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return ".jpg"
	case strings.Contains(mimeType, "webp"):
		return ".webp"
	case strings.Contains(mimeType, "gif"):
		return ".gif"
	case strings.HasPrefix(mimeType, "image/"):
		return ".jpg"
	default:
		return ".mp4"
	}
}

func writeExclusive(path string, payload []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(payload); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func schemeOf(ref string) string {
	if idx := strings.Index(ref, ":"); idx > 0 {
		return ref[:idx]
	}
	if len(ref) > 12 {
		return ref[:12]
	}
	return ref
}
