package preflight

import (
	"errors"
	"fmt"

	"reverbkit/internal/config"
	"reverbkit/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every check that applies to a run from inputDir into
// outputDir. External tools are not included; see CheckSystemDeps.
func RunAll(cfg *config.Config, inputDir, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Input data directory", inputDir, false),
		CheckOutputDirectory("Output data directory", outputDir),
		CheckDistinct(inputDir, outputDir),
	}
	results = append(results, CheckInputFiles(inputDir)...)

	if cfg.Catalogs.RIRList == "" {
		results = append(results, Result{Name: "RIR list", Detail: "not configured"})
	} else {
		results = append(results, CheckReadableFile("RIR list", cfg.Catalogs.RIRList))
	}
	if cfg.Catalogs.NoiseList != "" {
		results = append(results, CheckReadableFile("Noise list", cfg.Catalogs.NoiseList))
	}
	return results
}

// Err joins the failed results into one configuration error, or returns nil
// when every check passed.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "check", "", errors.Join(errs...))
}
