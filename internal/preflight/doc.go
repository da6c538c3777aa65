// Package preflight provides readiness checks for the directories, catalogs
// and external tools a corpus run depends on.
//
// The "reverbkit check" command renders every result as a table. The
// workflow runs the same checks before taking the output lock and stops on
// the first failure, so a doomed run never touches the output directory.
package preflight
