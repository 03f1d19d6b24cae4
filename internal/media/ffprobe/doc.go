// Package ffprobe wraps ffprobe's JSON output for the bits of media metadata
// vttscribe cares about: whether the input carries audio and how long it is.
package ffprobe
