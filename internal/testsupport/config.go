package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reverbkit/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The rir list points at a small two-room catalog written under the base
// directory; options may replace it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Catalogs.RIRList = WriteCatalog(t, filepath.Join(base, "catalogs", "rir_list"), SampleRIRList)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithNoiseList writes content as the noise catalog and points the config at it.
func WithNoiseList(content string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalogs.NoiseList = WriteCatalog(b.t, filepath.Join(b.baseDir, "catalogs", "noise_list"), content)
	}
}

// WithRIRList replaces the impulse response catalog.
func WithRIRList(content string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalogs.RIRList = WriteCatalog(b.t, filepath.Join(b.baseDir, "catalogs", "rir_list"), content)
	}
}

// WithReplicas sets the replica count and id prefix.
func WithReplicas(n int, prefix string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Replication.NumReplicas = n
		b.cfg.Replication.Prefix = prefix
	}
}

// WithSeed sets the random seed.
func WithSeed(seed int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Replication.RandomSeed = seed
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the corpus tool binaries are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"wav-reverberate", "wav-to-duration"}
		}
		for _, name := range names {
			StubBinary(b.t, b.baseDir, name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// StubBinary writes an executable shell script named name into dir/bin and
// prepends that directory to PATH for the rest of the test.
func StubBinary(t testing.TB, dir, name, script string) string {
	t.Helper()

	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
