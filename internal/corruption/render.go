package corruption

import (
	"strconv"
	"strings"
)

// Binary is the signal-processing tool rendered pipelines invoke.
const Binary = "wav-reverberate"

// Render turns a plan into the wav.scp value for the corrupted recording.
// An empty plan returns signal unchanged. Otherwise a bare file reference is
// first turned into a "cat <file> |" pipe and the corruption is appended.
// Noise fragments, start times, and SNRs are emitted as parallel lists in
// plan order.
func Render(signal string, plan Plan) string {
	if plan.Empty() {
		return signal
	}

	source := signal
	if len(strings.Fields(signal)) == 1 {
		source = "cat " + strings.TrimSpace(signal) + " |"
	}

	opts := make([]string, 0, 4)
	if plan.SpeechRIR != nil {
		opts = append(opts, "--impulse-response="+plan.SpeechRIR.Location)
	}
	if len(plan.Noises) > 0 {
		fragments := make([]string, len(plan.Noises))
		starts := make([]string, len(plan.Noises))
		snrs := make([]string, len(plan.Noises))
		for i, event := range plan.Noises {
			fragments[i] = noiseFragment(event)
			starts[i] = formatNumber(event.StartTime)
			snrs[i] = formatNumber(event.SNR)
		}
		opts = append(opts,
			"--additive-signals='"+strings.Join(fragments, ",")+"'",
			"--start-times='"+strings.Join(starts, ",")+"'",
			"--snrs='"+strings.Join(snrs, ",")+"'",
		)
	}

	return source + " " + Binary + " " + strings.Join(opts, " ") + " - - |"
}

func noiseFragment(event NoiseEvent) string {
	parts := []string{Binary}
	if event.ExtendTo > 0 {
		parts = append(parts, "--duration="+formatNumber(event.ExtendTo))
	}
	if event.RIR != nil {
		parts = append(parts, "--impulse-response="+event.RIR.Location)
	}
	parts = append(parts, event.Noise.Location, "- |")
	return strings.Join(parts, " ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
