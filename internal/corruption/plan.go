package corruption

import "reverbkit/internal/catalog"

// NoiseEvent is one additive noise mixed into a recording.
type NoiseEvent struct {
	Noise *catalog.Noise
	// RIR reverberates a point-source noise. Nil for isotropic noises, which
	// are recorded in place.
	RIR *catalog.ImpulseResponse
	// StartTime is the offset into the recording in seconds.
	StartTime float64
	// SNR is the mixing level in dB.
	SNR float64
	// ExtendTo stretches the noise to this many seconds. Zero leaves the
	// noise at its natural length.
	ExtendTo float64
}

// Plan describes how one recording is corrupted.
type Plan struct {
	// Room is the room drawn for the recording.
	Room *catalog.Room
	// SpeechRIR is the impulse response applied to the speech, or nil when
	// the reverberation draw failed.
	SpeechRIR *catalog.ImpulseResponse
	Noises    []NoiseEvent
}

// Empty reports whether the plan leaves the recording untouched.
func (p Plan) Empty() bool {
	return p.SpeechRIR == nil && len(p.Noises) == 0
}
