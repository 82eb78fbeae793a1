package preflight

import (
	"context"

	"clipforge/internal/config"
	"clipforge/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(_ context.Context, cfg *config.Config, registry *deps.Registry) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir))
	results = append(results, CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir))
	if cfg.Paths.PublicDir != "" {
		results = append(results, CheckDirectoryAccess("Public directory", cfg.Paths.PublicDir))
	}
	results = append(results, CheckFreeSpace("Scratch free space", cfg.Paths.ScratchDir))
	results = append(results, CheckFreeSpace("Output free space", cfg.Paths.OutputDir))

	if registry != nil {
		for _, status := range registry.All() {
			results = append(results, CheckBinary(status))
		}
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
