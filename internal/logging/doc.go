// Package logging assembles structured slog loggers for reverbkit.
//
// It owns the console and JSON handlers, maps configured levels onto slog,
// and exposes context-aware helpers so corpus code can tag log lines with the
// run identifier, replica index and recording id without threading them
// through every call.
package logging
