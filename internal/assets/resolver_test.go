package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/internal/config"
	"clipforge/internal/services"
)

func newTestResolver(t *testing.T, publicDir string) *Resolver {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.PublicDir = publicDir
	return NewResolver(&cfg, nil)
}

func TestResolveInlinePNG(t *testing.T) {
	dir := t.TempDir()
	resolver := newTestResolver(t, "")

	payload := []byte{0x89, 'P', 'N', 'G'}
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	path, err := resolver.Resolve(context.Background(), ref, filepath.Join(dir, "logo_01ABC"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !strings.HasSuffix(path, "logo_01ABC.png") {
		t.Fatalf("unexpected path: %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Fatalf("decoded payload mismatch: %v", got)
	}
}

func TestResolveInlineInvalidBase64(t *testing.T) {
	resolver := newTestResolver(t, "")
	_, err := resolver.Resolve(context.Background(), "data:image/png;base64,!!!not-base64!!!", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}

func TestResolveInlineMissingBase64Marker(t *testing.T) {
	resolver := newTestResolver(t, "")
	_, err := resolver.Resolve(context.Background(), "data:image/png,rawdata", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}

func TestResolveRemoteUsesContentType(t *testing.T) {
	body := []byte("jpeg-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg; charset=binary")
		_, _ = w.Write(body)
	}))
	defer server.Close()

	resolver := newTestResolver(t, "")
	path, err := resolver.Resolve(context.Background(), server.URL, filepath.Join(t.TempDir(), "part0_01ABC"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Fatalf("content type not mapped to jpg: %q", path)
	}
}

func TestResolveRemoteErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	resolver := newTestResolver(t, "")
	_, err := resolver.Resolve(context.Background(), server.URL, filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected resolution error, got %v", err)
	}
}

func TestResolveRemoteSizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Resolver.MaxFetchBytes = 1024
	resolver := NewResolver(&cfg, nil)

	_, err := resolver.Resolve(context.Background(), server.URL, filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected size-limit resolution error, got %v", err)
	}
}

func TestResolveLocalCopiesFromPublicDir(t *testing.T) {
	publicDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(publicDir, "song.mp3"), []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	resolver := newTestResolver(t, publicDir)
	path, err := resolver.Resolve(context.Background(), "/song.mp3", filepath.Join(t.TempDir(), "song_01ABC"))
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !strings.HasSuffix(path, "song_01ABC.mp3") {
		t.Fatalf("unexpected path: %q", path)
	}
}

func TestResolveLocalRejectsTraversal(t *testing.T) {
	publicDir := filepath.Join(t.TempDir(), "public")
	if err := os.MkdirAll(publicDir, 0o755); err != nil {
		t.Fatal(err)
	}

	resolver := newTestResolver(t, publicDir)
	_, err := resolver.Resolve(context.Background(), "/../outside.mp4", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, services.ErrResolution) {
		t.Fatalf("expected resolution error for traversal, got %v", err)
	}
}

func TestResolveUnrecognizedScheme(t *testing.T) {
	resolver := newTestResolver(t, "")
	for _, ref := range []string{"ftp://host/file.mp4", "relative/path.mp4", ""} {
		_, err := resolver.Resolve(context.Background(), ref, filepath.Join(t.TempDir(), "x"))
		if !errors.Is(err, services.ErrResolution) {
			t.Fatalf("ref %q: expected resolution error, got %v", ref, err)
		}
	}
}

func TestResolveNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	resolver := newTestResolver(t, "")
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("a"))

	dest := filepath.Join(dir, "logo_01ABC")
	if _, err := resolver.Resolve(context.Background(), ref, dest); err != nil {
		t.Fatal(err)
	}
	if _, err := resolver.Resolve(context.Background(), ref, dest); !errors.Is(err, services.ErrResolution) {
		t.Fatalf("second resolve to same path must fail, got %v", err)
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/png":       ".png",
		"image/jpeg":      ".jpg",
		"image/webp":      ".webp",
		"image/gif":       ".gif",
		"image/bmp":       ".jpg",
		"video/mp4":       ".mp4",
		"audio/mpeg":      ".mp4",
		"":                ".mp4",
		"application/ogg": ".mp4",
	}
	for mime, want := range cases {
		if got := extensionFor(mime); got != want {
			t.Fatalf("extensionFor(%q) = %q, want %q", mime, got, want)
		}
	}
}
