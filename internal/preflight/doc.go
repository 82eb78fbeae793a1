// Package preflight provides readiness checks for the external binaries and
// filesystem paths the composition pipeline depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and refuses to serve when a required
//     check fails, so jobs are rejected before any asset resolution begins.
//   - The CLI "clipforge status" command displays the same results for
//     operator diagnosis.
//
// Optional capabilities (the hook rasterizer) report their state but never
// fail the run.
package preflight
