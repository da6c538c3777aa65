package main

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"reverbkit/internal/config"
	"reverbkit/internal/testsupport"
)

func writeInput(t *testing.T, dir string) {
	t.Helper()
	testsupport.WriteDataDir(t, dir, map[string]map[string]string{
		"wav.scp":  {"spk1-utt1": "audio/utt1.wav", "spk2-utt2": "audio/utt2.wav"},
		"reco2dur": {"spk1-utt1": "12.5", "spk2-utt2": "80"},
		"utt2spk":  {"spk1-utt1": "spk1", "spk2-utt2": "spk2"},
	})
}

func TestConfigInitAndValidate(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[replication]\nnum_replicas = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := runCLI(t, []string{"config", "validate"}, path)
	if err == nil || !strings.Contains(err.Error(), "num_replicas") {
		t.Fatalf("expected num_replicas error, got %v", err)
	}
}

func TestReverberateCommandWritesReplicas(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithNoiseList(testsupport.SampleNoiseList), testsupport.WithSeed(7))
	configPath := writeTestConfig(t, cfg)
	base := testsupport.BaseDir(cfg)
	in := filepath.Join(base, "data", "train")
	outDir := filepath.Join(base, "data", "train_rvb")
	writeInput(t, in)

	out, _, err := runCLI(t, []string{"reverberate", "--num-replications", "2", "--foreground-snrs", "15:5", in, outDir}, configPath)
	if err != nil {
		t.Fatalf("reverberate: %v", err)
	}
	requireContains(t, out, "Wrote 4 utterances (2 recordings x 2 replicas)")
	requireContains(t, out, `warning: prefix is set to "rvb"`)

	scp, err := os.ReadFile(filepath.Join(outDir, "wav.scp"))
	if err != nil {
		t.Fatalf("read wav.scp: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(scp)), "\n")
	if len(lines) != 4 {
		t.Fatalf("unexpected wav.scp line count: got %d want 4\n%s", len(lines), scp)
	}
	if !strings.HasPrefix(lines[0], "rvb0_spk1-utt1") {
		t.Fatalf("unexpected first wav.scp line: %q", lines[0])
	}
	spk2utt, err := os.ReadFile(filepath.Join(outDir, "spk2utt"))
	if err != nil {
		t.Fatalf("read spk2utt: %v", err)
	}
	requireContains(t, string(spk2utt), "rvb0_spk1 rvb0_spk1-utt1")
}

func TestReverberateCommandRequiresRIRList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Catalogs.RIRList = ""
	configPath := writeTestConfig(t, cfg)
	base := testsupport.BaseDir(cfg)
	in := filepath.Join(base, "in")
	writeInput(t, in)

	_, _, err := runCLI(t, []string{"reverberate", in, filepath.Join(base, "out")}, configPath)
	if err == nil || !strings.Contains(err.Error(), "rir_list") {
		t.Fatalf("expected rir_list error, got %v", err)
	}
}

func TestReverberateFlagsApplyOnlyChanged(t *testing.T) {
	var f reverberateFlags
	fs := pflag.NewFlagSet("reverberate", pflag.ContinueOnError)
	fs.IntVar(&f.numReplicas, "num-replications", 1, "")
	fs.Int64Var(&f.randomSeed, "random-seed", 0, "")
	fs.StringVar(&f.backgroundSNRs, "background-snrs", "20:10:0", "")
	fs.Float64Var(&f.smoothingWeight, "smoothing-weight", 0.3, "")
	if err := fs.Parse([]string{"--num-replications", "3", "--background-snrs", "5:-5"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Default()
	cfg.Replication.RandomSeed = 42
	cfg.Replication.SmoothingWeight = 0.5
	if err := f.apply(fs, &cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Replication.NumReplicas != 3 {
		t.Fatalf("unexpected replicas: got %d want 3", cfg.Replication.NumReplicas)
	}
	if cfg.Replication.RandomSeed != 42 {
		t.Fatalf("unset flag overrode seed: got %d want 42", cfg.Replication.RandomSeed)
	}
	if cfg.Replication.SmoothingWeight != 0.5 {
		t.Fatalf("unset flag overrode smoothing: got %v want 0.5", cfg.Replication.SmoothingWeight)
	}
	if got := config.FormatSNRList(cfg.Replication.BackgroundSNRs); got != "5:-5" {
		t.Fatalf("unexpected background snrs: got %q want %q", got, "5:-5")
	}
}

func TestInspectCommandTSV(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithNoiseList(testsupport.SampleNoiseList))
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"inspect"}, configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "Rooms (2, total weight 1.0000)")
	requireContains(t, out, "Room\tRIRs\tWeight\n")
	requireContains(t, out, "roomA\t2\t")
	requireContains(t, out, "r1\troomA\t0.4\t-\t")
	requireContains(t, out, "r2\troomA\t-\t0.7\t")
	requireContains(t, out, "iso1\tIsotropic\tBackground\tr1\t")
	requireContains(t, out, "\tForeground\t\t")
}

func TestInspectCommandJSON(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := writeTestConfig(t, cfg)

	out, _, err := runCLI(t, []string{"inspect", "--json"}, configPath)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var report inspectReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Rooms) != 2 || report.Rooms[0].ID != "roomA" || report.Rooms[1].ID != "roomB" {
		t.Fatalf("unexpected rooms: %+v", report.Rooms)
	}
	if len(report.RIRs) != 3 {
		t.Fatalf("unexpected rir count: got %d want 3", len(report.RIRs))
	}
	total := 0.0
	for _, rir := range report.RIRs {
		total += rir.Probability
	}
	if math.Abs(total-1) > 1e-9 {
		t.Fatalf("rir weights should sum to one, got %v", total)
	}
	if len(report.Noises) != 0 {
		t.Fatalf("expected no noises without a noise list, got %d", len(report.Noises))
	}
}

func TestCheckCommand(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := writeTestConfig(t, cfg)
	base := testsupport.BaseDir(cfg)
	in := filepath.Join(base, "in")
	writeInput(t, in)

	out, _, err := runCLI(t, []string{"check", in, filepath.Join(base, "out")}, configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Check\tStatus\tDetail\n")
	requireContains(t, out, "wav-reverberate\tok\t")

	out, _, err = runCLI(t, []string{"check", in, in}, configPath)
	if err == nil {
		t.Fatalf("expected check to fail when input and output match\n%s", out)
	}
	requireContains(t, out, "FAIL")
}
