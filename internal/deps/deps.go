package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"reverbkit/internal/config"
	"reverbkit/internal/corruption"
)

// Requirement defines an external dependency reverbkit relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external tools a corpus run touches. Neither is run
// while planning: the signal processor is invoked later by whatever consumes
// the generated wav.scp, and the duration tool only when reco2dur is missing.
func Requirements(cfg *config.Config) []Requirement {
	probe := "wav-to-duration"
	if cfg != nil && strings.TrimSpace(cfg.Probe.Binary) != "" {
		probe = cfg.Probe.Binary
	}
	return []Requirement{
		{
			Name:        "wav-reverberate",
			Command:     corruption.Binary,
			Description: "Executes the generated wav.scp pipelines",
			Optional:    true,
		},
		{
			Name:        "wav-to-duration",
			Command:     probe,
			Description: "Measures recordings when reco2dur is missing",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if path, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
				status.Command = path
			}
		}
		results = append(results, status)
	}
	return results
}
