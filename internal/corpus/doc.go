// Package corpus reads and renders the flat per-recording tables of a Kaldi
// style data directory (wav.scp, reco2dur, utt2spk, and friends).
//
// Tables are treated as opaque key-to-string mappings: the first
// whitespace-separated token is the key and the rest of the line is the
// value. Rendering always sorts by key so output diffs cleanly between runs.
package corpus
