// Package duration measures recording lengths when a data directory ships
// without reco2dur.
//
// Bare .wav references are read directly from their headers, concurrently.
// Anything else (pipelines, other containers) is handed to the external
// wav-to-duration tool in a single invocation over the whole wav.scp.
package duration
