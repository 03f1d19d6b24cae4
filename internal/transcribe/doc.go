// Package transcribe is the boundary to external speech-recognition engines.
//
// This package handles:
//   - Options: the explicit model/device/decoding configuration for a run
//   - Provider: an engine that turns a media file into a lazy segment sequence
//   - faster-whisper and WhisperX providers that run as child processes
//
// Segment sequences are forward-only and single-pass (iter.Seq2). Callers pull
// one segment at a time and must Close the Result when done so the child
// process is released.
package transcribe
