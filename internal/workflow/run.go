package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reverbkit/internal/catalog"
	"reverbkit/internal/config"
	"reverbkit/internal/corpus"
	"reverbkit/internal/corruption"
	"reverbkit/internal/fileutil"
	"reverbkit/internal/logging"
	"reverbkit/internal/media/duration"
	"reverbkit/internal/preflight"
	"reverbkit/internal/replication"
	"reverbkit/internal/sampling"
	"reverbkit/internal/services"
)

// LockFile is created in the output directory for the duration of a run.
const LockFile = ".reverbkit.lock"

// Request names the data directories of one run.
type Request struct {
	InputDir  string
	OutputDir string
}

// Summary describes a completed run.
type Summary struct {
	RunID             string
	Recordings        int
	Replicas          int
	Prefix            string
	Outputs           int
	Reverberated      int
	NoiseEvents       int
	Rooms             int
	PointSourceNoises int
	IsotropicNoises   int
	DurationsProbed   bool
	Files             []string
	Warnings          []string
	Elapsed           time.Duration
}

// Run replicates the corpus in req.InputDir into req.OutputDir.
func Run(ctx context.Context, cfg *config.Config, req Request, logger *slog.Logger) (Summary, error) {
	start := time.Now()
	if cfg == nil {
		return Summary{}, services.Wrap(services.ErrConfiguration, "workflow", "run", "configuration is nil", nil)
	}
	if err := cfg.ValidateForRun(); err != nil {
		return Summary{}, err
	}

	summary := Summary{RunID: uuid.NewString()}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "workflow"))

	if err := preflight.Err(preflight.RunAll(cfg, req.InputDir, req.OutputDir)); err != nil {
		return Summary{}, err
	}

	unlock, err := lockOutput(req.OutputDir)
	if err != nil {
		return Summary{}, err
	}
	defer unlock()

	rooms, noises, err := loadCatalogs(cfg, logger, &summary)
	if err != nil {
		return Summary{}, err
	}

	recordings, err := loadRecordings(ctx, cfg, req.InputDir, logger, &summary)
	if err != nil {
		return Summary{}, err
	}

	r := cfg.Replication
	engine, err := replication.NewEngine(sampling.NewSource(r.RandomSeed), rooms, noises, replication.Options{
		NumReplicas:    r.NumReplicas,
		Prefix:         r.Prefix,
		ForegroundSNRs: r.ForegroundSNRs,
		BackgroundSNRs: r.BackgroundSNRs,
		Planner: corruption.Options{
			SpeechReverbProbability: r.SpeechRvbProbability,
			IsotropicProbability:    r.IsotropicNoiseAdditionProbability,
			PointSourceProbability:  r.PointSourceNoiseAdditionProbability,
			MaxNoisesPerMinute:      r.MaxNoisesPerMinute,
		},
	}, logger)
	if err != nil {
		return Summary{}, err
	}
	result, err := engine.Generate(ctx, recordings)
	if err != nil {
		return Summary{}, err
	}
	for _, warning := range result.Warnings {
		logging.WarnWithContext(logger, warning, "prefix_defaulted",
			logging.String(logging.FieldErrorHint, "pass --prefix to choose the replica id prefix"))
	}
	summary.Replicas = r.NumReplicas
	summary.Prefix = engine.Prefix()
	summary.Outputs = len(result.Signals)
	summary.Reverberated = result.Reverberated
	summary.NoiseEvents = result.NoiseEvents
	summary.Warnings = result.Warnings

	outputs, err := buildOutputs(req.InputDir, result.Signals, r.NumReplicas, summary.Prefix, logger)
	if err != nil {
		return Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	files, err := flush(req.OutputDir, outputs)
	if err != nil {
		return Summary{}, err
	}
	summary.Files = files
	summary.Elapsed = time.Since(start)

	logger.Info("corpus replicated",
		logging.String("output_dir", req.OutputDir),
		logging.Int("recordings", summary.Recordings),
		logging.Int("replicas", summary.Replicas),
		logging.Int("outputs", summary.Outputs),
		logging.Int("reverberated", summary.Reverberated),
		logging.Int("noise_events", summary.NoiseEvents),
		logging.Duration("elapsed", summary.Elapsed),
	)
	return summary, nil
}

func lockOutput(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "create output dir", dir, err)
	}
	path := filepath.Join(dir, LockFile)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "acquire lock", "another reverbkit run is writing to "+dir, nil)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(path)
	}, nil
}

func loadCatalogs(cfg *config.Config, logger *slog.Logger, summary *Summary) (*catalog.RoomIndex, catalog.NoiseCatalog, error) {
	smoothing := cfg.Replication.SmoothingWeight
	rirs, err := catalog.LoadRIRList(cfg.Catalogs.RIRList, smoothing)
	if err != nil {
		return nil, catalog.NoiseCatalog{}, err
	}
	rooms, err := catalog.BuildRoomIndex(rirs)
	if err != nil {
		return nil, catalog.NoiseCatalog{}, err
	}
	summary.Rooms = rooms.Len()

	var noises catalog.NoiseCatalog
	if cfg.Catalogs.NoiseList != "" {
		noises, err = catalog.LoadNoiseList(cfg.Catalogs.NoiseList, smoothing)
		if err != nil {
			return nil, catalog.NoiseCatalog{}, err
		}
		for _, noise := range noises.OrphanedIsotropic(rirs) {
			logging.WarnWithContext(logger, "isotropic noise references an unknown impulse response", "catalog_orphan",
				logging.String("noise_id", noise.ID),
				logging.String("rir_id", noise.RIRID),
				logging.String(logging.FieldErrorHint, "the noise can never be selected; fix its --rir-id"),
			)
		}
	}
	summary.PointSourceNoises = len(noises.PointSource)
	summary.IsotropicNoises = len(noises.Isotropic)

	logger.Info("catalogs loaded",
		logging.Int("rirs", len(rirs)),
		logging.Int("rooms", summary.Rooms),
		logging.Int("point_source_noises", summary.PointSourceNoises),
		logging.Int("isotropic_noises", summary.IsotropicNoises),
	)
	return rooms, noises, nil
}

func loadRecordings(ctx context.Context, cfg *config.Config, inputDir string, logger *slog.Logger, summary *Summary) ([]corpus.Recording, error) {
	scpPath := filepath.Join(inputDir, corpus.WavScp)
	scp, err := corpus.ReadTable(scpPath)
	if err != nil {
		return nil, err
	}

	var durations map[string]float64
	hasDurations, err := corpus.Exists(inputDir, corpus.Reco2Dur)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "stat reco2dur", inputDir, err)
	}
	if hasDurations {
		durations, err = corpus.ReadDurations(filepath.Join(inputDir, corpus.Reco2Dur))
	} else {
		summary.DurationsProbed = true
		durations, err = duration.ProbeAll(ctx, scp, scpPath, duration.Options{
			Command: duration.CommandProber{
				Binary:         cfg.Probe.Binary,
				ReadEntireFile: cfg.Probe.ReadEntireFile,
			},
			Concurrency: cfg.Probe.Concurrency,
			Logger:      logger,
		})
	}
	if err != nil {
		return nil, err
	}

	recordings, err := corpus.Recordings(scp, durations)
	if err != nil {
		return nil, err
	}
	summary.Recordings = len(recordings)
	return recordings, nil
}

// buildOutputs renders every output table in memory, keyed by file name.
func buildOutputs(inputDir string, signals map[string]string, replicas int, prefix string, logger *slog.Logger) (map[string][]byte, error) {
	outputs := map[string][]byte{corpus.WavScp: corpus.RenderTable(signals)}
	for _, companion := range corpus.Companions {
		data, err := replicateCompanion(inputDir, companion, replicas, prefix)
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("companion table absent; skipping", logging.String("file", companion.Name))
			continue
		}
		if err != nil {
			return nil, err
		}
		outputs[companion.Name] = data
	}
	if utt2spk, ok := outputs[corpus.Utt2Spk]; ok {
		spk2utt, err := replication.SpeakerToUtterances(bytes.NewReader(utt2spk))
		if err != nil {
			return nil, err
		}
		outputs[corpus.Spk2Utt] = spk2utt
	}
	return outputs, nil
}

func replicateCompanion(inputDir string, companion corpus.Companion, replicas int, prefix string) ([]byte, error) {
	path := filepath.Join(inputDir, companion.Name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "open "+companion.Name, path, err)
	}
	defer f.Close()
	data, err := replication.ReplicateFields(f, replicas, prefix, companion.Fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", companion.Name, err)
	}
	return data, nil
}

func flush(outputDir string, outputs map[string][]byte) ([]string, error) {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := fileutil.WriteFileAtomic(filepath.Join(outputDir, name), outputs[name], 0o644); err != nil {
			return nil, services.Wrap(services.ErrInternal, "workflow", "write "+name, outputDir, err)
		}
	}
	return names, nil
}
