// Package main hosts the vttscribe CLI.
//
// The root command transcribes one media file into a WebVTT file:
//
//	vttscribe <input_media_path> <output_vtt_path> [flags]
//
// Subcommands cover configuration scaffolding, dependency diagnostics,
// inspection of written subtitle files and transcript cache maintenance.
// Heavy lifting lives in the internal packages; this package wires
// configuration, logging and progress output around them.
package main
