package corpus

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Data directory file names.
const (
	WavScp              = "wav.scp"
	Reco2Dur            = "reco2dur"
	Utt2Spk             = "utt2spk"
	Spk2Utt             = "spk2utt"
	Text                = "text"
	Segments            = "segments"
	Reco2FileAndChannel = "reco2file_and_channel"
)

// Companion describes a per-utterance table replicated alongside wav.scp and
// the zero-based fields that hold identifiers to rename.
type Companion struct {
	Name   string
	Fields []int
}

// Companions lists the tables replicated when present, in write order.
var Companions = []Companion{
	{Name: Utt2Spk, Fields: []int{0, 1}},
	{Name: Text, Fields: []int{0}},
	{Name: Segments, Fields: []int{0, 1}},
	{Name: Reco2FileAndChannel, Fields: []int{0, 1}},
}

// Exists reports whether name is a regular file inside dir.
func Exists(dir, name string) (bool, error) {
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
