package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"reverbkit/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Catalogs locates the impulse-response and noise lists.
type Catalogs struct {
	RIRList   string `toml:"rir_list" yaml:"rir_list"`
	NoiseList string `toml:"noise_list" yaml:"noise_list"`
}

// Replication controls how many corrupted copies are produced and how each
// recording is corrupted.
type Replication struct {
	NumReplicas    int       `toml:"num_replicas" yaml:"num_replicas"`
	Prefix         string    `toml:"prefix" yaml:"prefix"`
	RandomSeed     int64     `toml:"random_seed" yaml:"random_seed"`
	ForegroundSNRs []float64 `toml:"foreground_snrs" yaml:"foreground_snrs"`
	BackgroundSNRs []float64 `toml:"background_snrs" yaml:"background_snrs"`

	SpeechRvbProbability                float64 `toml:"speech_rvb_probability" yaml:"speech_rvb_probability"`
	PointSourceNoiseAdditionProbability float64 `toml:"pointsource_noise_addition_probability" yaml:"pointsource_noise_addition_probability"`
	IsotropicNoiseAdditionProbability   float64 `toml:"isotropic_noise_addition_probability" yaml:"isotropic_noise_addition_probability"`
	// MaxNoisesPerMinute bounds point-source noises by recording length.
	MaxNoisesPerMinute int `toml:"max_noises_per_minute" yaml:"max_noises_per_minute"`
	// SmoothingWeight is the share of the uniform distribution blended into
	// catalog weights.
	SmoothingWeight float64 `toml:"smoothing_weight" yaml:"smoothing_weight"`
}

// Probe configures duration probing when reco2dur is missing.
type Probe struct {
	Binary         string `toml:"binary" yaml:"binary"`
	Concurrency    int    `toml:"concurrency" yaml:"concurrency"`
	ReadEntireFile bool   `toml:"read_entire_file" yaml:"read_entire_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" yaml:"format"`
	Level  string `toml:"level" yaml:"level"`
	Dir    string `toml:"dir" yaml:"dir"`
}

// Config encapsulates all configuration values for reverbkit.
type Config struct {
	Catalogs    Catalogs    `toml:"catalogs" yaml:"catalogs"`
	Replication Replication `toml:"replication" yaml:"replication"`
	Probe       Probe       `toml:"probe" yaml:"probe"`
	Logging     Logging     `toml:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reverbkit/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded. A missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := decode(file, resolvedPath, &cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decode(r io.Reader, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reverbkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
