package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"reverbkit/internal/services"
)

// Validate ensures the configuration is usable. All problems are reported
// together.
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs, c.validateReplication()...)
	errs = append(errs, c.validateProbe()...)
	errs = append(errs, c.validateLogging()...)
	if len(errs) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "config", "validate", "", errors.Join(errs...))
}

// ValidateForRun additionally requires the settings a corpus run needs.
func (c *Config) ValidateForRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Catalogs.RIRList) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "validate", "catalogs.rir_list must be set (or pass --rir-list-file)", nil)
	}
	return nil
}

func (c *Config) validateReplication() []error {
	r := c.Replication
	var errs []error
	if r.NumReplicas < 1 {
		errs = append(errs, errors.New("replication.num_replicas must be >= 1"))
	}
	if strings.ContainsAny(r.Prefix, " \t") {
		errs = append(errs, errors.New("replication.prefix must not contain whitespace"))
	}
	if err := validateSNRs("replication.foreground_snrs", r.ForegroundSNRs); err != nil {
		errs = append(errs, err)
	}
	if err := validateSNRs("replication.background_snrs", r.BackgroundSNRs); err != nil {
		errs = append(errs, err)
	}
	for _, field := range []struct {
		key   string
		value float64
	}{
		{"replication.speech_rvb_probability", r.SpeechRvbProbability},
		{"replication.pointsource_noise_addition_probability", r.PointSourceNoiseAdditionProbability},
		{"replication.isotropic_noise_addition_probability", r.IsotropicNoiseAdditionProbability},
		{"replication.smoothing_weight", r.SmoothingWeight},
	} {
		if err := ensureUnit(field.key, field.value); err != nil {
			errs = append(errs, err)
		}
	}
	if r.MaxNoisesPerMinute < 0 {
		errs = append(errs, errors.New("replication.max_noises_per_minute must be >= 0"))
	}
	return errs
}

func (c *Config) validateProbe() []error {
	if c.Probe.Concurrency <= 0 {
		return []error{errors.New("probe.concurrency must be positive")}
	}
	return nil
}

func (c *Config) validateLogging() []error {
	var errs []error
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is invalid; valid values: console, json", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is invalid; valid values: debug, info, warn, error", c.Logging.Level))
	}
	return errs
}

func validateSNRs(key string, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%s must include at least one value", key)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s contains a non-finite value", key)
		}
	}
	return nil
}

func ensureUnit(key string, value float64) error {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1", key)
	}
	return nil
}
