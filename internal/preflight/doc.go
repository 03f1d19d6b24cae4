// Package preflight validates the input file, the output location and the
// external programs before a transcription run starts, so obvious problems
// surface before a model is loaded.
package preflight
