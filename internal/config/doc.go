// Package config loads, normalizes, and validates reverbkit configuration.
//
// Configuration is read from TOML by default (~/.config/reverbkit/config.toml
// or ./reverbkit.toml); files ending in .yaml or .yml are decoded as YAML.
// Defaults cover every tunable, so a missing file is not an error. Command
// line flags override individual values after loading.
//
// Sections:
//   - Catalogs: impulse-response and noise list locations
//   - Replication: replica count, id prefix, seed, SNR pools, probabilities
//   - Probe: duration probing for data directories without reco2dur
//   - Logging: log format, level, and optional log directory
package config
