package duration

import (
	"context"
	"fmt"
	"os"

	"github.com/go-audio/wav"

	"reverbkit/internal/services"
)

// WAVProber reads durations from RIFF/WAVE headers.
type WAVProber struct{}

// Duration returns the length of the PCM data in path, in seconds.
func (WAVProber) Duration(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "duration", "open wav", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, services.Wrap(services.ErrConfiguration, "duration", "read wav", path+" is not a valid wav file", nil)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, services.Wrap(services.ErrConfiguration, "duration", "read wav", path, err)
	}
	frameBytes := int(dec.NumChans) * int(dec.BitDepth) / 8
	if frameBytes <= 0 || dec.SampleRate == 0 {
		return 0, services.Wrap(services.ErrConfiguration, "duration", "read wav", fmt.Sprintf("%s has an unusable format (%d channels, %d bits, %d Hz)", path, dec.NumChans, dec.BitDepth, dec.SampleRate), nil)
	}
	return float64(dec.PCMSize) / float64(frameBytes) / float64(dec.SampleRate), nil
}
