package artifacts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"clipforge/internal/config"
	"clipforge/internal/fileutil"
	"clipforge/internal/logging"
	"clipforge/internal/services"
)

// TTL is how long a published video stays retrievable. The serving cache
// lifetime and the reaper threshold both derive from it.
const TTL = 15 * time.Minute

// Suffix is the fixed container extension every artifact name carries.
const Suffix = ".mp4"

// namePattern is a path-traversal guard, not a business rule: identities are
// validated against it before any filesystem access.
var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+\.mp4$`)

// Artifact is one published output and its expiry window.
type Artifact struct {
	Name      string    `json:"name"`
	Path      string    `json:"-"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Sidecar is the expiry record written next to each artifact. The reaper
// treats it as a hint; file modification time is ground truth.
type Sidecar struct {
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`
}

// Store owns published artifacts from finalization until reclamation.
type Store struct {
	dir    string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewStore builds a store over the configured output directory.
func NewStore(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if cfg == nil || strings.TrimSpace(cfg.Paths.OutputDir) == "" {
		return nil, fmt.Errorf("artifacts: output directory not configured")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	dir := cfg.Paths.OutputDir
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("artifacts: ensure output dir: %w", err)
	}
	return &Store{
		dir:    dir,
		lock:   flock.New(filepath.Join(dir, ".reaper.lock")),
		logger: logger.With(logging.String(logging.FieldComponent, "artifacts")),
	}, nil
}

// Name derives the artifact filename for a job identity.
func Name(jobID string) string {
	return "clip_" + jobID + Suffix
}

// ValidateName rejects identities that fail the filename pattern before any
// filesystem access.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return services.Wrap(services.ErrInvalidIdentity, "", "validate identity", "identity does not match the artifact naming pattern", nil)
	}
	return nil
}

// Publish atomically moves the finished file into the output directory, writes
// the expiry sidecar next to it, and returns the retrieval record.
func (s *Store) Publish(jobID, src string) (Artifact, error) {
	name := Name(jobID)
	if err := ValidateName(name); err != nil {
		return Artifact{}, err
	}
	dst := filepath.Join(s.dir, name)

	if err := fileutil.ReplaceFile(src, dst); err != nil {
		return Artifact{}, services.Wrap(services.ErrEncoding, "finalizing", "publish artifact", "", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrEncoding, "finalizing", "stat artifact", "", err)
	}

	now := time.Now().UTC()
	artifact := Artifact{
		Name:      name,
		Path:      dst,
		Size:      info.Size(),
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}

	// Sidecar loss is tolerated: the reaper falls back to file mtime.
	sidecar := Sidecar{Created: artifact.CreatedAt, Expires: artifact.ExpiresAt}
	if payload, err := json.Marshal(sidecar); err == nil {
		if err := os.WriteFile(sidecarPath(dst), payload, 0o644); err != nil {
			s.logger.Warn("sidecar write failed",
				logging.String("artifact", name),
				logging.Error(err),
			)
		}
	}

	s.logger.Info("artifact published",
		logging.String("artifact", name),
		logging.Int64("bytes", artifact.Size),
		logging.String("expires_at", artifact.ExpiresAt.Format(time.RFC3339)),
	)
	return artifact, nil
}

// Open validates the identity and returns a handle for serving. Absent files
// (already reaped or never created) surface as not-found.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}
	path := filepath.Join(s.dir, name)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, services.Wrap(services.ErrNotFound, "", "open artifact", "video not found", nil)
		}
		return nil, nil, fmt.Errorf("open artifact: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, fmt.Errorf("stat artifact: %w", err)
	}
	return file, info, nil
}

// Dir returns the directory artifacts are published to.
func (s *Store) Dir() string {
	return s.dir
}

func sidecarPath(artifactPath string) string {
	return artifactPath + ".meta.json"
}
