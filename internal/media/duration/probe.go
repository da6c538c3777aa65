package duration

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"reverbkit/internal/logging"
)

// Options configures ProbeAll.
type Options struct {
	Command     CommandProber
	Concurrency int
	Logger      *slog.Logger
}

// ProbeAll measures every entry of scp, which was read from scpPath. When
// every value is a bare .wav path the headers are read concurrently;
// otherwise the external tool is run once over scpPath. Relative wav paths
// resolve against the current directory, as the tools that consume wav.scp
// do.
func ProbeAll(ctx context.Context, scp map[string]string, scpPath string, opts Options) (map[string]float64, error) {
	logger := logging.NewComponentLogger(opts.Logger, "duration")
	if !allBareWAV(scp) {
		logger.Info("probing durations with external tool",
			logging.String("command", opts.Command.String(scpPath)),
			logging.Int("recordings", len(scp)),
		)
		return opts.Command.Durations(ctx, scpPath)
	}

	logger.Info("reading durations from wav headers",
		logging.Int("recordings", len(scp)),
		logging.Int("concurrency", max(opts.Concurrency, 1)),
	)
	var (
		mu        sync.Mutex
		durations = make(map[string]float64, len(scp))
		prober    WAVProber
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))
	for id, signal := range scp {
		g.Go(func() error {
			seconds, err := prober.Duration(gctx, strings.TrimSpace(signal))
			if err != nil {
				return err
			}
			mu.Lock()
			durations[id] = seconds
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return durations, nil
}

func allBareWAV(scp map[string]string) bool {
	for _, signal := range scp {
		fields := strings.Fields(signal)
		if len(fields) != 1 || !strings.EqualFold(filepath.Ext(fields[0]), ".wav") {
			return false
		}
	}
	return true
}
