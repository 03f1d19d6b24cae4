// Package webvtt renders timed transcript segments as WebVTT documents.
//
// The package owns three pieces:
//   - FormatTimestamp: seconds to HH:MM:SS.mmm with clamping and millisecond carry
//   - NormalizeText: whitespace collapsing for cue payloads
//   - Writer / Serialize / WriteFile: single-pass cue serialization to a sink
//
// A small reader (Parse, ParseFile) turns documents produced here back into
// cues so callers can inspect or validate output files.
//
// Segments are pulled one at a time from an iter.Seq2 and written immediately;
// nothing beyond the current cue is buffered in memory.
package webvtt
