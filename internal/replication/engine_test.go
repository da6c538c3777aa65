package replication

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reverbkit/internal/catalog"
	"reverbkit/internal/corpus"
	"reverbkit/internal/corruption"
	"reverbkit/internal/logging"
	"reverbkit/internal/sampling"
	"reverbkit/internal/services"
)

const testRIRs = `--rir-id r1 --room-id roomA rirs/r1.wav
--rir-id r2 --room-id roomA --probability 0.8 rirs/r2.wav
--rir-id r3 --room-id roomB rirs/r3.wav
`

const testNoises = `--noise-id iso1 --noise-type isotropic --rir-id r1 noises/iso1.wav
--noise-id fg1 --noise-type point-source --bg-fg-type foreground noises/fg1.wav
--noise-id bg1 --noise-type point-source noises/bg1.wav
`

var testRecordings = []corpus.Recording{
	{ID: "utt-b", Signal: "sox b.flac -t wav - |", Duration: 95},
	{ID: "utt-a", Signal: "audio/a.wav", Duration: 42.5},
	{ID: "utt-c", Signal: "audio/c.wav", Duration: 12},
}

func loadCatalogs(t *testing.T) (*catalog.RoomIndex, catalog.NoiseCatalog) {
	t.Helper()
	rirs, err := catalog.ParseRIRList(strings.NewReader(testRIRs), sampling.DefaultSmoothing)
	if err != nil {
		t.Fatalf("ParseRIRList: %v", err)
	}
	rooms, err := catalog.BuildRoomIndex(rirs)
	if err != nil {
		t.Fatalf("BuildRoomIndex: %v", err)
	}
	noises, err := catalog.ParseNoiseList(strings.NewReader(testNoises), sampling.DefaultSmoothing)
	if err != nil {
		t.Fatalf("ParseNoiseList: %v", err)
	}
	return rooms, noises
}

func defaultOptions(replicas int) Options {
	return Options{
		NumReplicas:    replicas,
		ForegroundSNRs: []float64{20, 10, 0},
		BackgroundSNRs: []float64{20, 10, 0},
		Planner: corruption.Options{
			SpeechReverbProbability: 1,
			IsotropicProbability:    1,
			PointSourceProbability:  1,
			MaxNoisesPerMinute:      2,
		},
	}
}

func generate(t *testing.T, seed int64, opts Options) Result {
	t.Helper()
	rooms, noises := loadCatalogs(t)
	engine, err := NewEngine(sampling.NewSource(seed), rooms, noises, opts, logging.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	result, err := engine.Generate(context.Background(), testRecordings)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return result
}

func TestGenerateZeroProbabilitiesLeaveSignalsUnchanged(t *testing.T) {
	opts := defaultOptions(1)
	opts.Planner = corruption.Options{MaxNoisesPerMinute: 2}

	result := generate(t, 0, opts)

	if len(result.Signals) != len(testRecordings) {
		t.Fatalf("expected %d signals, got %d", len(testRecordings), len(result.Signals))
	}
	for _, rec := range testRecordings {
		if got := result.Signals[rec.ID]; got != rec.Signal {
			t.Fatalf("signal for %s changed: got %q want %q", rec.ID, got, rec.Signal)
		}
	}
	if result.Reverberated != 0 || result.NoiseEvents != 0 {
		t.Fatalf("expected no corruption, got %+v", result)
	}
}

func TestGenerateTwoReplicasUseDefaultPrefix(t *testing.T) {
	result := generate(t, 3, defaultOptions(2))

	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], `"rvb"`) {
		t.Fatalf("expected prefix warning, got %v", result.Warnings)
	}
	if len(result.Signals) != 2*len(testRecordings) {
		t.Fatalf("expected %d signals, got %d", 2*len(testRecordings), len(result.Signals))
	}
	for _, rec := range testRecordings {
		for _, id := range []string{"rvb0_" + rec.ID, "rvb1_" + rec.ID} {
			if _, ok := result.Signals[id]; !ok {
				t.Fatalf("missing replica id %s", id)
			}
		}
	}
	if result.Reverberated != 2*len(testRecordings) {
		t.Fatalf("expected every replica reverberated, got %d", result.Reverberated)
	}
}

func TestGenerateExplicitPrefixWithSingleReplica(t *testing.T) {
	opts := defaultOptions(1)
	opts.Prefix = "sim"
	result := generate(t, 0, opts)

	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if _, ok := result.Signals["sim0_utt-a"]; !ok {
		t.Fatalf("expected prefixed id, got %v", result.Signals)
	}
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	first := generate(t, 42, defaultOptions(3))
	second := generate(t, 42, defaultOptions(3))

	if string(corpus.RenderTable(first.Signals)) != string(corpus.RenderTable(second.Signals)) {
		t.Fatal("expected identical output for identical seeds")
	}
	if first.NoiseEvents != second.NoiseEvents || first.Reverberated != second.Reverberated {
		t.Fatalf("counters differ: %+v vs %+v", first, second)
	}
}

func TestGenerateIgnoresInputOrder(t *testing.T) {
	rooms, noises := loadCatalogs(t)
	reversed := []corpus.Recording{testRecordings[2], testRecordings[1], testRecordings[0]}

	engine, err := NewEngine(sampling.NewSource(9), rooms, noises, defaultOptions(1), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	got, err := engine.Generate(context.Background(), reversed)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := generate(t, 9, defaultOptions(1))
	if string(corpus.RenderTable(got.Signals)) != string(corpus.RenderTable(want.Signals)) {
		t.Fatal("expected output independent of input order")
	}
}

func TestGenerateRendersPipelines(t *testing.T) {
	opts := defaultOptions(1)
	opts.Planner.IsotropicProbability = 0
	opts.Planner.PointSourceProbability = 0
	result := generate(t, 1, opts)

	bare := result.Signals["utt-a"]
	if !strings.HasPrefix(bare, "cat audio/a.wav | wav-reverberate --impulse-response=rirs/") || !strings.HasSuffix(bare, " - - |") {
		t.Fatalf("unexpected bare rendering: %q", bare)
	}
	piped := result.Signals["utt-b"]
	if !strings.HasPrefix(piped, "sox b.flac -t wav - | wav-reverberate --impulse-response=rirs/") {
		t.Fatalf("unexpected pipeline rendering: %q", piped)
	}
}

func TestGenerateStopsWhenCancelled(t *testing.T) {
	rooms, noises := loadCatalogs(t)
	engine, err := NewEngine(sampling.NewSource(0), rooms, noises, defaultOptions(2), nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Generate(ctx, testRecordings); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewEngineValidatesOptions(t *testing.T) {
	rooms, noises := loadCatalogs(t)
	cases := map[string]Options{
		"no replicas":  {NumReplicas: 0, ForegroundSNRs: []float64{1}, BackgroundSNRs: []float64{1}},
		"no fg snrs":   {NumReplicas: 1, BackgroundSNRs: []float64{1}},
		"bad planner":  {NumReplicas: 1, ForegroundSNRs: []float64{1}, BackgroundSNRs: []float64{1}, Planner: corruption.Options{SpeechReverbProbability: 2}},
		"negative max": {NumReplicas: 1, ForegroundSNRs: []float64{1}, BackgroundSNRs: []float64{1}, Planner: corruption.Options{MaxNoisesPerMinute: -1}},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			engine, err := NewEngine(sampling.NewSource(0), rooms, noises, opts, nil)
			if err == nil {
				_, err = engine.Generate(context.Background(), testRecordings)
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestNewID(t *testing.T) {
	if got := NewID("", 3, "utt1"); got != "utt1" {
		t.Fatalf("unexpected id without prefix: %q", got)
	}
	if got := NewID("rvb", 12, "utt1"); got != "rvb12_utt1" {
		t.Fatalf("unexpected id: %q", got)
	}
}
