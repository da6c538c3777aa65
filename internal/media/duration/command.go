package duration

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"reverbkit/internal/corpus"
	"reverbkit/internal/services"
)

// DefaultBinary is the external duration tool.
const DefaultBinary = "wav-to-duration"

// CommandProber runs the external duration tool over a whole wav.scp.
type CommandProber struct {
	Binary         string
	ReadEntireFile bool
}

// Args returns the arguments passed to the tool for scpPath.
func (p CommandProber) Args(scpPath string) []string {
	args := make([]string, 0, 3)
	if p.ReadEntireFile {
		args = append(args, "--read-entire-file=true")
	}
	return append(args, "scp:"+scpPath, "ark,t:-")
}

// Durations runs the tool and parses its "id seconds" output.
func (p CommandProber) Durations(ctx context.Context, scpPath string) (map[string]float64, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = DefaultBinary
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, p.Args(scpPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "duration", binary, strings.TrimSpace(stderr.String()), err)
	}

	table, err := corpus.ParseTable(&stdout)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "duration", "parse "+binary+" output", "", err)
	}
	durations, err := corpus.ParseDurations(table)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "duration", "parse "+binary+" output", "", err)
	}
	return durations, nil
}

// String renders the command line for logs.
func (p CommandProber) String(scpPath string) string {
	binary := p.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	return fmt.Sprintf("%s %s", binary, strings.Join(p.Args(scpPath), " "))
}
