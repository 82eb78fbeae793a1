package artifacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clipforge/internal/services"
	"clipforge/internal/testsupport"
)

const testArtifactSize = 2048

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(testsupport.NewConfig(t), nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store
}

func publishTestArtifact(t *testing.T, store *Store, jobID string) Artifact {
	t.Helper()
	src := filepath.Join(t.TempDir(), "finished.mp4")
	testsupport.WriteFile(t, src, testArtifactSize)
	artifact, err := store.Publish(jobID, src)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	return artifact
}

func TestValidateName(t *testing.T) {
	valid := []string{"abc123_video.mp4", "clip_01ARZ3NDEKTSV4RRFFQ69G5FAV.mp4", "a.mp4", "A-b_9.mp4"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Fatalf("ValidateName(%q) rejected a valid name: %v", name, err)
		}
	}

	invalid := []string{"../../etc/passwd", "video.mov", "", "a/b.mp4", "clip .mp4", ".mp4", "clip.mp4.exe"}
	for _, name := range invalid {
		err := ValidateName(name)
		if !errors.Is(err, services.ErrInvalidIdentity) {
			t.Fatalf("ValidateName(%q) = %v, want invalid-identity error", name, err)
		}
	}
}

func TestPublishCreatesArtifactAndSidecar(t *testing.T) {
	store := newTestStore(t)
	artifact := publishTestArtifact(t, store, "01ARZ3NDEKTSV4RRFFQ69G5FAV")

	if artifact.Name != "clip_01ARZ3NDEKTSV4RRFFQ69G5FAV.mp4" {
		t.Fatalf("unexpected name: %q", artifact.Name)
	}
	if got := artifact.ExpiresAt.Sub(artifact.CreatedAt); got != TTL {
		t.Fatalf("expiry window = %v, want %v", got, TTL)
	}

	if _, err := os.Stat(artifact.Path); err != nil {
		t.Fatalf("artifact file missing: %v", err)
	}
	if _, err := os.Stat(artifact.Path + ".meta.json"); err != nil {
		t.Fatalf("sidecar missing: %v", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	store := newTestStore(t)
	artifact := publishTestArtifact(t, store, "abc123")

	file, info, err := store.Open(artifact.Name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer file.Close()
	if info.Size() != int64(testArtifactSize) {
		t.Fatalf("unexpected size: %d", info.Size())
	}
}

func TestOpenValidatesBeforeFilesystem(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Open("../../etc/passwd")
	if !errors.Is(err, services.ErrInvalidIdentity) {
		t.Fatalf("expected invalid-identity error, got %v", err)
	}
}

func TestOpenAbsentIsNotFound(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.Open("clip_never_existed.mp4")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestReapDeletesOnlyExpired(t *testing.T) {
	store := newTestStore(t)
	fresh := publishTestArtifact(t, store, "fresh1")
	expired := publishTestArtifact(t, store, "stale1")

	old := time.Now().Add(-TTL - time.Minute)
	if err := os.Chtimes(expired.Path, old, old); err != nil {
		t.Fatal(err)
	}

	count, err := store.Reap(context.Background())
	if err != nil {
		t.Fatalf("Reap failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("reclaimed = %d, want 1", count)
	}

	if _, err := os.Stat(fresh.Path); err != nil {
		t.Fatal("fresh artifact must survive the sweep")
	}
	if _, err := os.Stat(expired.Path); !os.IsNotExist(err) {
		t.Fatal("expired artifact must be deleted")
	}
	if _, err := os.Stat(expired.Path + ".meta.json"); !os.IsNotExist(err) {
		t.Fatal("expired sidecar must be deleted with its artifact")
	}
}

func TestReapToleratesMissingSidecar(t *testing.T) {
	store := newTestStore(t)
	expired := publishTestArtifact(t, store, "nosidecar")
	if err := os.Remove(expired.Path + ".meta.json"); err != nil {
		t.Fatal(err)
	}

	old := time.Now().Add(-TTL - time.Minute)
	if err := os.Chtimes(expired.Path, old, old); err != nil {
		t.Fatal(err)
	}

	count, err := store.Reap(context.Background())
	if err != nil {
		t.Fatalf("Reap failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("reclaimed = %d, want 1", count)
	}
}

func TestReapIgnoresForeignFiles(t *testing.T) {
	store := newTestStore(t)
	foreign := filepath.Join(store.Dir(), "notes.txt")
	if err := os.WriteFile(foreign, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-TTL - time.Hour)
	if err := os.Chtimes(foreign, old, old); err != nil {
		t.Fatal(err)
	}

	count, err := store.Reap(context.Background())
	if err != nil {
		t.Fatalf("Reap failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("reclaimed = %d, want 0", count)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Fatal("non-artifact files must not be reaped")
	}
}

func TestReapIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	expired := publishTestArtifact(t, store, "once")
	old := time.Now().Add(-TTL - time.Minute)
	if err := os.Chtimes(expired.Path, old, old); err != nil {
		t.Fatal(err)
	}

	if count, err := store.Reap(context.Background()); err != nil || count != 1 {
		t.Fatalf("first sweep: count=%d err=%v", count, err)
	}
	if count, err := store.Reap(context.Background()); err != nil || count != 0 {
		t.Fatalf("second sweep: count=%d err=%v", count, err)
	}
}
