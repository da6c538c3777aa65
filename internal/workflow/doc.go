// Package workflow runs one corpus replication from an input data directory
// into an output data directory.
//
// Run owns the whole lifecycle: preflight checks, the exclusive output lock,
// catalog loading, duration lookup or probing, plan generation, companion
// table replication, and the final atomic flush. Every table is built in
// memory first, so a failure at any step leaves the output directory as it
// was.
package workflow
