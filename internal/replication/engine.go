package replication

import (
	"context"
	"log/slog"
	"sort"

	"reverbkit/internal/catalog"
	"reverbkit/internal/corpus"
	"reverbkit/internal/corruption"
	"reverbkit/internal/logging"
	"reverbkit/internal/sampling"
	"reverbkit/internal/services"
)

// Result is the outcome of one Generate call.
type Result struct {
	// Signals maps replica ids to their rendered wav.scp values.
	Signals  map[string]string
	Warnings []string
	// Reverberated counts replicas whose speech received an impulse response.
	Reverberated int
	// NoiseEvents counts every additive noise across all replicas.
	NoiseEvents int
}

// Engine generates every replica of a corpus from a single random source.
type Engine struct {
	rng      sampling.Source
	rooms    *catalog.RoomIndex
	noises   catalog.NoiseCatalog
	opts     Options
	warnings []string
	logger   *slog.Logger
}

// NewEngine builds an engine. opts is normalized here and the warnings it
// produces are reported in every Result.
func NewEngine(rng sampling.Source, rooms *catalog.RoomIndex, noises catalog.NoiseCatalog, opts Options, logger *slog.Logger) (*Engine, error) {
	if rng == nil {
		return nil, services.Wrap(services.ErrInternal, "replication", "new engine", "random source is nil", nil)
	}
	if rooms == nil || rooms.Len() == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "replication", "new engine", "room index is empty", nil)
	}
	warnings, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	return &Engine{
		rng:      rng,
		rooms:    rooms,
		noises:   noises,
		opts:     opts,
		warnings: warnings,
		logger:   logging.NewComponentLogger(logger, "replication"),
	}, nil
}

// Prefix returns the normalized id prefix.
func (e *Engine) Prefix() string {
	return e.opts.Prefix
}

// Generate plans and renders every replica of recordings. Recordings are
// processed in id order so a fixed seed yields identical output. The
// foreground and background SNR cycles are created once, foreground first,
// and shared by the whole run. ctx is checked between replicas.
func (e *Engine) Generate(ctx context.Context, recordings []corpus.Recording) (Result, error) {
	opts := e.opts
	foreground, err := sampling.NewCycle(e.rng, opts.ForegroundSNRs)
	if err != nil {
		return Result{}, err
	}
	background, err := sampling.NewCycle(e.rng, opts.BackgroundSNRs)
	if err != nil {
		return Result{}, err
	}
	planner, err := corruption.NewPlanner(e.rng, e.rooms, e.noises, foreground, background, opts.Planner)
	if err != nil {
		return Result{}, err
	}

	sorted := append([]corpus.Recording(nil), recordings...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	result := Result{
		Signals:  make(map[string]string, len(sorted)*opts.NumReplicas),
		Warnings: append([]string(nil), e.warnings...),
	}
	for replica := range opts.NumReplicas {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		replicaCtx := services.WithReplica(ctx, replica)
		for _, rec := range sorted {
			plan, err := planner.Plan(rec.Duration)
			if err != nil {
				return Result{}, services.Wrap(services.ErrInternal, "replication", "plan", rec.ID, err)
			}
			newID := NewID(opts.Prefix, replica, rec.ID)
			if _, dup := result.Signals[newID]; dup {
				return Result{}, services.Wrap(services.ErrValidation, "replication", "generate", "duplicate output id "+newID, nil)
			}
			result.Signals[newID] = corruption.Render(rec.Signal, plan)
			if plan.SpeechRIR != nil {
				result.Reverberated++
			}
			result.NoiseEvents += len(plan.Noises)

			if e.logger.Enabled(ctx, slog.LevelDebug) {
				attrs := []logging.Attr{
					logging.String("room_id", plan.Room.ID),
					logging.Bool("reverberated", plan.SpeechRIR != nil),
					logging.Int("noises", len(plan.Noises)),
					logging.Float64("duration_seconds", rec.Duration),
				}
				logging.WithContext(services.WithRecordingID(replicaCtx, rec.ID), e.logger).
					Debug("planned corruption", logging.Args(attrs...)...)
			}
		}
	}
	return result, nil
}
