// Package artifacts manages finished videos from finalization to reclamation.
//
// Publishing atomically renames a finished file into the shared output
// directory and writes an expiry sidecar next to it. Retrieval validates the
// identity against a strict filename pattern before touching the filesystem.
// The reaper sweeps the directory for files older than the TTL, keyed on
// modification time rather than sidecar contents so sidecar loss cannot
// strand an artifact.
package artifacts
