package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"clipforge/internal/deps"
	"clipforge/internal/testsupport"
)

func TestCheckDirectoryAccessOK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccessNotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccessNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	result := CheckFreeSpace("test", t.TempDir())
	if result.Detail == "" {
		t.Fatal("expected detail with free-space figure")
	}
}

func TestCheckBinaryOptionalAbsentStillPasses(t *testing.T) {
	result := CheckBinary(deps.Status{Name: "Chromium", Optional: true, Available: false})
	if !result.Passed {
		t.Fatalf("optional binary absence should pass, got: %s", result.Detail)
	}

	required := CheckBinary(deps.Status{Name: "FFmpeg", Available: false})
	if required.Passed {
		t.Fatal("required binary absence must fail")
	}
}

func TestRunAllCoversConfiguredPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	results := RunAll(context.Background(), cfg, deps.NewRegistry(cfg))
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if !AllPassed(results) {
		for _, result := range results {
			if !result.Passed {
				t.Errorf("check %s failed: %s", result.Name, result.Detail)
			}
		}
	}
}
