package replication

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"reverbkit/internal/services"
)

// ReplicateFields copies every line of a companion table once per replica,
// renaming the identifiers found at the given zero-based fields. Fields are
// re-joined with single spaces. Empty lines and lines starting with ';' are
// copied unchanged.
func ReplicateFields(r io.Reader, numReplicas int, prefix string, fields []int) ([]byte, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "replication", "read table", "", err)
	}

	var buf bytes.Buffer
	for replica := range numReplicas {
		for lineNo, line := range lines {
			if line == "" || strings.HasPrefix(line, ";") {
				buf.WriteString(line)
				buf.WriteByte('\n')
				continue
			}
			parts := strings.Fields(line)
			for _, field := range fields {
				if field < 0 || field >= len(parts) {
					return nil, services.Wrap(services.ErrConfiguration, "replication", "replicate fields", fmt.Sprintf("line %d has %d fields, need field %d", lineNo+1, len(parts), field+1), nil)
				}
				parts[field] = NewID(prefix, replica, parts[field])
			}
			buf.WriteString(strings.Join(parts, " "))
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// SpeakerToUtterances inverts an utt2spk table into spk2utt. Speakers and
// their utterances keep the order in which they first appear.
func SpeakerToUtterances(r io.Reader) ([]byte, error) {
	var speakers []string
	utterances := make(map[string][]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		if len(parts) != 2 {
			return nil, services.Wrap(services.ErrConfiguration, "replication", "spk2utt", fmt.Sprintf("utt2spk line %d must have 2 fields, got %d", lineNo, len(parts)), nil)
		}
		utt, spk := parts[0], parts[1]
		if _, seen := utterances[spk]; !seen {
			speakers = append(speakers, spk)
		}
		utterances[spk] = append(utterances[spk], utt)
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "replication", "spk2utt", "", err)
	}

	var buf bytes.Buffer
	for _, spk := range speakers {
		buf.WriteString(spk)
		for _, utt := range utterances[spk] {
			buf.WriteByte(' ')
			buf.WriteString(utt)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
