// Package services defines shared utilities consumed by the corpus pipeline
// and its external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, replica indexes, and recording
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so configuration
//     problems, broken invariants, and tool failures stay distinguishable
//     with errors.Is.
//
// Use these helpers when wiring new pipeline code so failure reporting stays
// uniform across catalogs, planning, and corpus output.
package services
