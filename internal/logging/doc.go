// Package logging assembles the structured slog loggers used across vttscribe.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes helpers so components tag their lines with a
// component name and the run's correlation ID. A no-op logger is provided for
// tests and for wiring code that cannot fail.
package logging
