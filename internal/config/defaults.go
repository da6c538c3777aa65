package config

import "reverbkit/internal/sampling"

const (
	defaultNumReplicas          = 1
	defaultSpeechRvbProbability = 1.0
	defaultPointSourceAddition  = 1.0
	defaultIsotropicAddition    = 1.0
	defaultMaxNoisesPerMinute   = 2
	defaultRandomSeed           = 0
	defaultProbeBinary          = "wav-to-duration"
	defaultProbeConcurrency     = 4
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// DefaultSNRs is the SNR pool used for both foreground and background noises.
var DefaultSNRs = []float64{20, 10, 0}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Replication: Replication{
			NumReplicas:                         defaultNumReplicas,
			RandomSeed:                          defaultRandomSeed,
			ForegroundSNRs:                      append([]float64(nil), DefaultSNRs...),
			BackgroundSNRs:                      append([]float64(nil), DefaultSNRs...),
			SpeechRvbProbability:                defaultSpeechRvbProbability,
			PointSourceNoiseAdditionProbability: defaultPointSourceAddition,
			IsotropicNoiseAdditionProbability:   defaultIsotropicAddition,
			MaxNoisesPerMinute:                  defaultMaxNoisesPerMinute,
			SmoothingWeight:                     sampling.DefaultSmoothing,
		},
		Probe: Probe{
			Binary:         defaultProbeBinary,
			Concurrency:    defaultProbeConcurrency,
			ReadEntireFile: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
