// Package jobs persists the observable record of composition runs: status,
// coarse progress, and the published artifact reference. Only the run record
// is stored; the composition request itself lives for the duration of the
// pipeline and is never written to disk.
package jobs
