package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeCatalogs(); err != nil {
		return err
	}
	c.normalizeReplication()
	c.normalizeProbe()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeCatalogs() error {
	var err error
	if c.Catalogs.RIRList, err = expandPath(strings.TrimSpace(c.Catalogs.RIRList)); err != nil {
		return fmt.Errorf("catalogs.rir_list: %w", err)
	}
	if c.Catalogs.NoiseList, err = expandPath(strings.TrimSpace(c.Catalogs.NoiseList)); err != nil {
		return fmt.Errorf("catalogs.noise_list: %w", err)
	}
	return nil
}

func (c *Config) normalizeReplication() {
	c.Replication.Prefix = strings.TrimSpace(c.Replication.Prefix)
}

func (c *Config) normalizeProbe() {
	c.Probe.Binary = strings.TrimSpace(c.Probe.Binary)
	if c.Probe.Binary == "" {
		c.Probe.Binary = defaultProbeBinary
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
