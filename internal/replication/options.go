package replication

import (
	"fmt"
	"strings"

	"reverbkit/internal/corruption"
	"reverbkit/internal/services"
)

// DefaultPrefix is chosen when several replicas are requested without one.
const DefaultPrefix = "rvb"

// Options controls a replication run.
type Options struct {
	NumReplicas    int
	Prefix         string
	ForegroundSNRs []float64
	BackgroundSNRs []float64
	Planner        corruption.Options
}

// Normalize validates the options and fills in the prefix when more than one
// replica would otherwise produce colliding ids. It returns the warnings the
// caller should surface.
func (o *Options) Normalize() ([]string, error) {
	if o.NumReplicas < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "replication", "options", fmt.Sprintf("number of replicas must be >= 1, got %d", o.NumReplicas), nil)
	}
	if len(o.ForegroundSNRs) == 0 || len(o.BackgroundSNRs) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "replication", "options", "foreground and background snr pools must not be empty", nil)
	}
	o.Prefix = strings.TrimSpace(o.Prefix)
	var warnings []string
	if o.Prefix == "" && o.NumReplicas > 1 {
		o.Prefix = DefaultPrefix
		warnings = append(warnings, fmt.Sprintf("prefix is set to %q as the number of replicas is larger than 1", DefaultPrefix))
	}
	return warnings, nil
}
