package config

import (
	"fmt"
	"strconv"
	"strings"

	"reverbkit/internal/services"
)

// ParseSNRList parses a colon-separated SNR pool such as "20:10:0".
func ParseSNRList(value string) ([]float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, services.Wrap(services.ErrConfiguration, "config", "parse snrs", "empty snr list", nil)
	}
	parts := strings.Split(value, ":")
	snrs := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "config", "parse snrs", fmt.Sprintf("invalid snr %q in %q", part, value), nil)
		}
		snrs = append(snrs, v)
	}
	return snrs, nil
}

// FormatSNRList renders an SNR pool in the colon-separated flag format.
func FormatSNRList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ":")
}
