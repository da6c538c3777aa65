// Command reverbkit synthesizes reverberated and noisy replicas of a speech
// corpus data directory.
//
// The reverberate subcommand does the work; inspect shows catalog weights
// after smoothing; check runs the preflight checks; config manages the
// configuration file.
package main
