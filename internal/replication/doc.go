// Package replication produces the corrupted copies of a corpus.
//
// Engine draws one corruption plan per recording per replica and renders it
// into the wav.scp value stored under the replica id. ReplicateFields and
// SpeakerToUtterances carry the per-utterance companion tables across to the
// replicas so every new id stays consistent.
package replication
