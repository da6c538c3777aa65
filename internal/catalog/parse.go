package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"reverbkit/internal/sampling"
	"reverbkit/internal/services"
)

// LoadRIRList reads and smooths the impulse-response catalog at path.
func LoadRIRList(path string, smoothing float64) ([]*ImpulseResponse, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "open rir list", path, err)
	}
	defer file.Close()
	return ParseRIRList(file, smoothing)
}

// ParseRIRList parses one impulse response per non-blank line and smooths
// the resulting weights.
func ParseRIRList(r io.Reader, smoothing float64) ([]*ImpulseResponse, error) {
	var rirs []*ImpulseResponse
	seen := map[string]int{}
	err := eachLine(r, func(lineNo int, fields []string) error {
		rir, err := parseRIRLine(fields)
		if err != nil {
			return lineError("rir list", lineNo, err)
		}
		if prev, ok := seen[rir.ID]; ok {
			return lineError("rir list", lineNo, fmt.Errorf("rir id %q already defined on line %d", rir.ID, prev))
		}
		seen[rir.ID] = lineNo
		rirs = append(rirs, rir)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(rirs) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "parse rir list", "no impulse responses found", nil)
	}
	if err := sampling.Smooth(rirs, smoothing); err != nil {
		return nil, err
	}
	return rirs, nil
}

// LoadNoiseList reads and smooths the noise catalog at path.
func LoadNoiseList(path string, smoothing float64) (NoiseCatalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return NoiseCatalog{}, services.Wrap(services.ErrConfiguration, "catalog", "open noise list", path, err)
	}
	defer file.Close()
	return ParseNoiseList(file, smoothing)
}

// ParseNoiseList parses one noise per non-blank line, splits the entries by
// kind, and smooths each non-empty list on its own.
func ParseNoiseList(r io.Reader, smoothing float64) (NoiseCatalog, error) {
	var catalog NoiseCatalog
	seen := map[string]int{}
	err := eachLine(r, func(lineNo int, fields []string) error {
		noise, err := parseNoiseLine(fields)
		if err != nil {
			return lineError("noise list", lineNo, err)
		}
		if prev, ok := seen[noise.ID]; ok {
			return lineError("noise list", lineNo, fmt.Errorf("noise id %q already defined on line %d", noise.ID, prev))
		}
		seen[noise.ID] = lineNo
		if noise.Kind == KindIsotropic {
			catalog.Isotropic = append(catalog.Isotropic, noise)
		} else {
			catalog.PointSource = append(catalog.PointSource, noise)
		}
		return nil
	})
	if err != nil {
		return NoiseCatalog{}, err
	}
	if catalog.Len() == 0 {
		return NoiseCatalog{}, services.Wrap(services.ErrConfiguration, "catalog", "parse noise list", "no noises found", nil)
	}
	if len(catalog.PointSource) > 0 {
		if err := sampling.Smooth(catalog.PointSource, smoothing); err != nil {
			return NoiseCatalog{}, err
		}
	}
	if len(catalog.Isotropic) > 0 {
		if err := sampling.Smooth(catalog.Isotropic, smoothing); err != nil {
			return NoiseCatalog{}, err
		}
	}
	return catalog, nil
}

func parseRIRLine(fields []string) (*ImpulseResponse, error) {
	fs := newLineFlagSet("rir")
	id := fs.String("rir-id", "", "unique impulse response id")
	room := fs.String("room-id", "", "room the impulse response was captured in")
	receiver := fs.String("receiver-position-id", "", "receiver position id")
	source := fs.String("source-position-id", "", "source position id")
	rt60 := fs.Float64("rt60", 0, "reverberation time in seconds")
	drr := fs.Float64("drr", 0, "direct-to-reverberant ratio")
	probability := fs.Float64("probability", 0, "selection weight estimate")
	if err := fs.Parse(fields); err != nil {
		return nil, err
	}

	rir := &ImpulseResponse{
		ID:                 strings.TrimSpace(*id),
		RoomID:             strings.TrimSpace(*room),
		ReceiverPositionID: *receiver,
		SourcePositionID:   *source,
	}
	if rir.ID == "" {
		return nil, errors.New("--rir-id is required")
	}
	if rir.RoomID == "" {
		return nil, errors.New("--room-id is required")
	}
	if fs.Changed("rt60") {
		rir.RT60 = rt60
	}
	if fs.Changed("drr") {
		rir.DRR = drr
	}
	if fs.Changed("probability") {
		rir.RawProbability = probability
	}
	location, err := singleLocation(fs)
	if err != nil {
		return nil, err
	}
	rir.Location = location
	return rir, nil
}

func parseNoiseLine(fields []string) (*Noise, error) {
	fs := newLineFlagSet("noise")
	id := fs.String("noise-id", "", "unique noise id")
	kind := fs.String("noise-type", "", "isotropic or point-source")
	role := fs.String("bg-fg-type", string(RoleBackground), "background or foreground")
	rirID := fs.String("rir-id", "", "impulse response an isotropic noise belongs to")
	probability := fs.Float64("probability", 0, "selection weight estimate")
	if err := fs.Parse(fields); err != nil {
		return nil, err
	}

	noise := &Noise{ID: strings.TrimSpace(*id)}
	if noise.ID == "" {
		return nil, errors.New("--noise-id is required")
	}
	if !fs.Changed("noise-type") {
		return nil, errors.New("--noise-type is required")
	}
	var err error
	if noise.Kind, err = parseKind(*kind); err != nil {
		return nil, err
	}
	if noise.Role, err = parseRole(*role); err != nil {
		return nil, err
	}
	noise.RIRID = strings.TrimSpace(*rirID)
	switch noise.Kind {
	case KindIsotropic:
		if noise.RIRID == "" {
			return nil, errors.New("--rir-id must be specified if --noise-type is isotropic")
		}
		noise.Role = RoleBackground
	case KindPointSource:
		if fs.Changed("rir-id") {
			return nil, errors.New("--rir-id must not be specified if --noise-type is point-source")
		}
	}
	if fs.Changed("probability") {
		noise.RawProbability = probability
	}
	if noise.Location, err = singleLocation(fs); err != nil {
		return nil, err
	}
	return noise, nil
}

func newLineFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

func singleLocation(fs *pflag.FlagSet) (string, error) {
	switch args := fs.Args(); len(args) {
	case 0:
		return "", errors.New("missing location")
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected one location, got %d: %s", len(args), strings.Join(args, " "))
	}
}

func eachLine(r io.Reader, fn func(lineNo int, fields []string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(lineNo, strings.Fields(line)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return services.Wrap(services.ErrConfiguration, "catalog", "read", "", err)
	}
	return nil
}

func lineError(list string, lineNo int, err error) error {
	return services.Wrap(services.ErrConfiguration, "catalog", "parse "+list, fmt.Sprintf("line %d", lineNo), err)
}
