package artifacts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clipforge/internal/logging"
)

// Reap deletes every artifact older than the TTL along with its sidecar and
// returns the reclaimed count. Age is measured by file modification time so a
// lost sidecar never strands a file. Per-file failures are logged and swept
// past; they never abort the sweep. Concurrent invocations are serialized by
// the directory lock, with the loser returning immediately.
func (s *Store) Reap(ctx context.Context) (int, error) {
	acquired, err := s.lock.TryLock()
	if err != nil {
		return 0, err
	}
	if !acquired {
		s.logger.Debug("reap already in progress, skipping")
		return 0, nil
	}
	defer func() { _ = s.lock.Unlock() }()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	reclaimed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return reclaimed, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Suffix) {
			continue
		}

		path := filepath.Join(s.dir, name)
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("reap stat failed, skipping",
				logging.String("artifact", name),
				logging.Error(err),
			)
			continue
		}
		if now.Sub(info.ModTime()) <= TTL {
			continue
		}

		if err := os.Remove(path); err != nil {
			s.logger.Warn("reap delete failed, skipping",
				logging.String("artifact", name),
				logging.Error(err),
			)
			continue
		}
		reclaimed++

		// Sidecar absence is not an error.
		if err := os.Remove(sidecarPath(path)); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("sidecar delete failed",
				logging.String("artifact", name),
				logging.Error(err),
			)
		}

		s.logger.Info("expired artifact reclaimed", logging.String("artifact", name))
	}

	return reclaimed, nil
}
