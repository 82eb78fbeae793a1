// Package compose implements the composition pipeline: it turns ten ordered
// visual parts plus an audio track into a single vertical video, applies the
// optional logo and hook overlays, and publishes the result as a temporary
// artifact. The pipeline owns a per-run scratch directory and reports coarse
// milestone progress to an observer.
package compose
