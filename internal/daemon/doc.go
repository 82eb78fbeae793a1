// Package daemon coordinates the long-running clipforged process: the HTTP
// API, the composition pipeline, the run-record store, and the background
// artifact reaper. A file lock enforces single-instance execution.
package daemon
