package testsupport

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// SampleRIRList is a small catalog with two rooms.
const SampleRIRList = `--rir-id r1 --room-id roomA --rt60 0.4 rirs/roomA-r1.wav
--rir-id r2 --room-id roomA --probability 0.7 rirs/roomA-r2.wav
--rir-id r3 --room-id roomB rirs/roomB-r3.wav
`

// SampleNoiseList pairs the sample rooms with one isotropic and two
// point-source noises.
const SampleNoiseList = `--noise-id iso1 --noise-type isotropic --rir-id r1 noises/iso1.wav
--noise-id fg1 --noise-type point-source --bg-fg-type foreground noises/fg1.wav
--noise-id bg1 --noise-type point-source --bg-fg-type background noises/bg1.wav
`

// WriteCatalog writes content to path and returns path.
func WriteCatalog(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteDataDir creates dir and writes each named table into it. Tables map
// keys to values and are written sorted, one "key value" line each.
func WriteDataDir(t testing.TB, dir string, tables map[string]map[string]string) {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	for name, table := range tables {
		keys := make([]string, 0, len(table))
		for key := range table {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, key := range keys {
			b.WriteString(key)
			b.WriteByte(' ')
			b.WriteString(table[key])
			b.WriteByte('\n')
		}
		if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

// WriteWAV writes a silent 16-bit PCM file with the given number of frames.
func WriteWAV(t testing.TB, path string, sampleRate, channels, frames int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder for %s: %v", path, err)
	}
}
