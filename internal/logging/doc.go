// Package logging builds the process-wide slog logger and standardizes the
// structured field names used across the pipeline.
//
// Two handlers are available: a console handler that prints a compact header
// (time, level, component, job, stage) with indented fields below it, and a
// JSON handler for log files and machine consumption. Console color is applied
// only when the destination is a terminal.
//
// WithContext derives a logger carrying the job, stage, and correlation
// identifiers stored in a context by the services package, so stage code never
// threads identity fields by hand.
package logging
