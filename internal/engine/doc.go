// Package engine wraps the external encoding binaries behind a narrow
// capability: render a declarative filter graph, inspect a file's duration.
//
// The pipeline never builds command lines itself; it constructs a Graph
// (inputs, filter, maps, codecs, duration cap) and hands it to an Engine.
// The concrete implementation shells out to ffmpeg/ffprobe resolved once by
// the deps registry, so a missing binary surfaces as a single
// engine-unavailable error at startup rather than a scattered probe failure
// mid-run.
package engine
