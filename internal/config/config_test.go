package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"reverbkit/internal/config"
	"reverbkit/internal/services"
)

func TestLoadDefaultConfigWhenMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(tempHome, ".config", "reverbkit", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}

	r := cfg.Replication
	if r.NumReplicas != 1 {
		t.Fatalf("unexpected replicas: %d", r.NumReplicas)
	}
	if r.Prefix != "" {
		t.Fatalf("expected no prefix by default, got %q", r.Prefix)
	}
	if config.FormatSNRList(r.ForegroundSNRs) != "20:10:0" || config.FormatSNRList(r.BackgroundSNRs) != "20:10:0" {
		t.Fatalf("unexpected snr pools: %v %v", r.ForegroundSNRs, r.BackgroundSNRs)
	}
	if r.SpeechRvbProbability != 1 || r.PointSourceNoiseAdditionProbability != 1 || r.IsotropicNoiseAdditionProbability != 1 {
		t.Fatalf("unexpected probabilities: %+v", r)
	}
	if r.MaxNoisesPerMinute != 2 || r.RandomSeed != 0 || r.SmoothingWeight != 0.3 {
		t.Fatalf("unexpected tunables: %+v", r)
	}
	if cfg.Probe.Binary != "wav-to-duration" || cfg.Probe.Concurrency != 4 || !cfg.Probe.ReadEntireFile {
		t.Fatalf("unexpected probe settings: %+v", cfg.Probe)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging settings: %+v", cfg.Logging)
	}
}

func TestLoadTOMLExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[catalogs]
rir_list = "~/rirs/rir_list"
noise_list = "~/noises/noise_list"

[replication]
num_replicas = 3
prefix = " sim "
random_seed = 17
foreground_snrs = [15.0, 5.0]
background_snrs = [3.0]
speech_rvb_probability = 0.5

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != cfgPath {
		t.Fatalf("unexpected resolution: %q %v", resolved, exists)
	}
	if cfg.Catalogs.RIRList != filepath.Join(tempHome, "rirs", "rir_list") {
		t.Fatalf("unexpected rir list: %q", cfg.Catalogs.RIRList)
	}
	if cfg.Catalogs.NoiseList != filepath.Join(tempHome, "noises", "noise_list") {
		t.Fatalf("unexpected noise list: %q", cfg.Catalogs.NoiseList)
	}
	r := cfg.Replication
	if r.NumReplicas != 3 || r.Prefix != "sim" || r.RandomSeed != 17 {
		t.Fatalf("unexpected replication: %+v", r)
	}
	if config.FormatSNRList(r.ForegroundSNRs) != "15:5" || config.FormatSNRList(r.BackgroundSNRs) != "3" {
		t.Fatalf("unexpected snr pools: %v %v", r.ForegroundSNRs, r.BackgroundSNRs)
	}
	if r.SpeechRvbProbability != 0.5 || r.IsotropicNoiseAdditionProbability != 1 {
		t.Fatalf("expected unspecified values to keep defaults: %+v", r)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected logging values to be normalized: %+v", cfg.Logging)
	}
}

func TestLoadYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "reverbkit.yaml")
	content := `
replication:
  num_replicas: 2
  max_noises_per_minute: 5
probe:
  concurrency: 8
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Replication.NumReplicas != 2 || cfg.Replication.MaxNoisesPerMinute != 5 || cfg.Probe.Concurrency != 8 {
		t.Fatalf("unexpected yaml values: %+v", cfg)
	}
	if cfg.Replication.SpeechRvbProbability != 1 {
		t.Fatal("expected defaults to survive yaml decode")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(tomlPath, []byte("[replication]\nreplicas = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(tomlPath); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown toml key, got %v", err)
	}

	yamlPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(yamlPath, []byte("replication:\n  replicas: 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(yamlPath); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown yaml key, got %v", err)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := config.Default()
	cfg.Replication.NumReplicas = 0
	cfg.Replication.SpeechRvbProbability = 1.5
	cfg.Replication.BackgroundSNRs = nil
	cfg.Replication.MaxNoisesPerMinute = -1
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	for _, fragment := range []string{
		"replication.num_replicas",
		"replication.speech_rvb_probability",
		"replication.background_snrs",
		"replication.max_noises_per_minute",
		"logging.format",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
}

func TestValidateForRunRequiresRIRList(t *testing.T) {
	cfg := config.Default()
	if err := cfg.ValidateForRun(); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	cfg.Catalogs.RIRList = "/tmp/rir_list"
	if err := cfg.ValidateForRun(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseSNRList(t *testing.T) {
	snrs, err := config.ParseSNRList("20:10:15:5:0")
	if err != nil {
		t.Fatalf("ParseSNRList returned error: %v", err)
	}
	if len(snrs) != 5 || snrs[2] != 15 || snrs[4] != 0 {
		t.Fatalf("unexpected snrs: %v", snrs)
	}
	if got := config.FormatSNRList([]float64{-2.5, 0}); got != "-2.5:0" {
		t.Fatalf("unexpected format: %q", got)
	}
	for _, bad := range []string{"", "20::0", "loud"} {
		if _, err := config.ParseSNRList(bad); !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("expected configuration error for %q, got %v", bad, err)
		}
	}
}

func TestSampleConfigParses(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if decoded.Replication.NumReplicas != 1 {
		t.Fatalf("unexpected sample replicas: %d", decoded.Replication.NumReplicas)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
	if !exists || cfg.Catalogs.RIRList == "" {
		t.Fatalf("expected sample to set rir list: %+v", cfg.Catalogs)
	}
}
