package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"reverbkit/internal/services"
)

// ReadTable parses a key/value table. Values are the remaining fields joined
// by single spaces. Blank lines are skipped; repeated keys are rejected.
func ReadTable(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "corpus", "open table", path, err)
	}
	defer file.Close()
	table, err := ParseTable(file)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "corpus", "read table", path, err)
	}
	return table, nil
}

// ParseTable parses a key/value table from r.
func ParseTable(r io.Reader) (map[string]string, error) {
	table := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		key := fields[0]
		if _, dup := table[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate key %q", lineNo, key)
		}
		table[key] = strings.Join(fields[1:], " ")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// ReadDurations parses a reco2dur table into seconds per recording.
func ReadDurations(path string) (map[string]float64, error) {
	table, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	return ParseDurations(table)
}

// ParseDurations converts table values into seconds.
func ParseDurations(table map[string]string) (map[string]float64, error) {
	durations := make(map[string]float64, len(table))
	for key, value := range table {
		first, _, _ := strings.Cut(value, " ")
		seconds, err := strconv.ParseFloat(first, 64)
		if err != nil || seconds < 0 {
			return nil, services.Wrap(services.ErrConfiguration, "corpus", "parse durations", fmt.Sprintf("recording %q has invalid duration %q", key, value), nil)
		}
		durations[key] = seconds
	}
	return durations, nil
}

// RenderTable writes table sorted by key as "key<TAB>value" lines.
func RenderTable(table map[string]string) []byte {
	var buf bytes.Buffer
	for _, key := range SortedKeys(table) {
		buf.WriteString(key)
		buf.WriteByte('\t')
		buf.WriteString(table[key])
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// SortedKeys returns the keys of m in ascending byte order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
