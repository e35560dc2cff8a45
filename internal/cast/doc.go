// Package cast records and replays terminal sessions in the asciicast v2
// format: a JSON header line followed by one JSON array per timed event.
//
// Recorder attaches to a session's output stream and timestamps output and
// resize events against a monotonic clock. Player walks a recording event
// by event, applying a speed factor and an idle cap to the delays, so a
// caller can drive either a live redraw or a headless terminal.
package cast
