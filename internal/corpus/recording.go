package corpus

import (
	"fmt"
	"strings"

	"reverbkit/internal/services"
)

// Recording is one clean input recording.
type Recording struct {
	ID string
	// Signal is the wav.scp value: a bare file reference or a pipeline
	// ending in "|".
	Signal string
	// Duration is the length in seconds.
	Duration float64
}

// IsBareFile reports whether the signal is a single file reference rather
// than a pipeline.
func (r Recording) IsBareFile() bool {
	return len(strings.Fields(r.Signal)) == 1
}

// Recordings joins wav.scp entries with their durations, sorted by id.
// Every recording must have a duration.
func Recordings(scp map[string]string, durations map[string]float64) ([]Recording, error) {
	if len(scp) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "corpus", "recordings", "wav.scp has no entries", nil)
	}
	recordings := make([]Recording, 0, len(scp))
	for _, id := range SortedKeys(scp) {
		duration, ok := durations[id]
		if !ok {
			return nil, services.Wrap(services.ErrConfiguration, "corpus", "recordings", fmt.Sprintf("no duration for recording %q", id), nil)
		}
		recordings = append(recordings, Recording{ID: id, Signal: scp[id], Duration: duration})
	}
	return recordings, nil
}
