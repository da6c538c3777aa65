package corruption

import (
	"fmt"
	"math"

	"reverbkit/internal/catalog"
	"reverbkit/internal/sampling"
	"reverbkit/internal/services"
)

// Options holds the per-feature probabilities and the point-source density.
type Options struct {
	SpeechReverbProbability float64
	IsotropicProbability    float64
	PointSourceProbability  float64
	MaxNoisesPerMinute      int
}

// Planner draws corruption plans. It is not safe for concurrent use: the
// random source and the SNR cycles advance with every plan.
type Planner struct {
	rng        sampling.Source
	rooms      *catalog.RoomIndex
	noises     catalog.NoiseCatalog
	foreground *sampling.Cycle[float64]
	background *sampling.Cycle[float64]
	opts       Options
}

// NewPlanner wires a planner to its catalogs, SNR cycles, and random source.
func NewPlanner(rng sampling.Source, rooms *catalog.RoomIndex, noises catalog.NoiseCatalog, foreground, background *sampling.Cycle[float64], opts Options) (*Planner, error) {
	switch {
	case rng == nil:
		return nil, services.Wrap(services.ErrInternal, "corruption", "new planner", "random source is nil", nil)
	case rooms == nil || rooms.Len() == 0:
		return nil, services.Wrap(services.ErrConfiguration, "corruption", "new planner", "room index is empty", nil)
	case foreground == nil || background == nil:
		return nil, services.Wrap(services.ErrConfiguration, "corruption", "new planner", "snr cycles are required", nil)
	}
	for _, check := range []struct {
		name  string
		value float64
	}{
		{"speech reverberation", opts.SpeechReverbProbability},
		{"isotropic noise", opts.IsotropicProbability},
		{"point-source noise", opts.PointSourceProbability},
	} {
		if math.IsNaN(check.value) || check.value < 0 || check.value > 1 {
			return nil, services.Wrap(services.ErrConfiguration, "corruption", "new planner", fmt.Sprintf("%s probability %v must be between 0 and 1", check.name, check.value), nil)
		}
	}
	if opts.MaxNoisesPerMinute < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "corruption", "new planner", "max noises per minute must be >= 0", nil)
	}
	return &Planner{
		rng:        rng,
		rooms:      rooms,
		noises:     noises,
		foreground: foreground,
		background: background,
		opts:       opts,
	}, nil
}

// MaxPointSourceNoises returns how many point-source noises a recording of
// the given length may receive.
func (p *Planner) MaxPointSourceNoises(duration float64) int {
	n := math.Floor(float64(p.opts.MaxNoisesPerMinute) * duration / 60)
	if n < 1 || math.IsNaN(n) {
		return 0
	}
	return int(n)
}

// Plan draws the corruption for one recording of the given duration.
func (p *Planner) Plan(duration float64) (Plan, error) {
	room, err := sampling.Pick(p.rng, p.rooms.Rooms())
	if err != nil {
		return Plan{}, err
	}
	// The speech impulse response is drawn even when it ends up unused so
	// its isotropic noises stay reachable.
	speechRIR, err := sampling.Pick(p.rng, room.RIRs)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Room: room}
	if p.rng.Float64() < p.opts.SpeechReverbProbability {
		plan.SpeechRIR = speechRIR
	}

	if err := p.addIsotropic(&plan, speechRIR, duration); err != nil {
		return Plan{}, err
	}
	if err := p.addPointSource(&plan, room, duration); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (p *Planner) addIsotropic(plan *Plan, speechRIR *catalog.ImpulseResponse, duration float64) error {
	candidates := p.noises.IsotropicFor(speechRIR.ID)
	if len(candidates) == 0 || p.rng.Float64() >= p.opts.IsotropicProbability {
		return nil
	}
	noise, err := sampling.Pick(p.rng, candidates)
	if err != nil {
		return err
	}
	plan.Noises = append(plan.Noises, NoiseEvent{
		Noise:     noise,
		StartTime: 0,
		SNR:       p.background.Next(),
		ExtendTo:  duration,
	})
	return nil
}

func (p *Planner) addPointSource(plan *Plan, room *catalog.Room, duration float64) error {
	if len(p.noises.PointSource) == 0 || p.rng.Float64() >= p.opts.PointSourceProbability {
		return nil
	}
	limit := p.MaxPointSourceNoises(duration)
	if limit < 1 {
		return nil
	}
	count := 1 + p.rng.IntN(limit)
	for range count {
		noise, err := sampling.Pick(p.rng, p.noises.PointSource)
		if err != nil {
			return err
		}
		noiseRIR, err := sampling.Pick(p.rng, room.RIRs)
		if err != nil {
			return err
		}
		event := NoiseEvent{Noise: noise, RIR: noiseRIR}
		if noise.Role == catalog.RoleBackground {
			event.ExtendTo = duration
			event.SNR = p.background.Next()
		} else {
			event.StartTime = math.Round(p.rng.Float64()*duration*100) / 100
			event.SNR = p.foreground.Next()
		}
		plan.Noises = append(plan.Noises, event)
	}
	return nil
}
