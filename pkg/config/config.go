// Package config loads settings from OPENSIG_* environment variables.
// Command-line flags take precedence over anything loaded here.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. OPENSIG_WALLET.
const Prefix = "OPENSIG"

// Config contains environment settings for the CLI.
type Config struct {
	Wallet         string `envconfig:"WALLET"`
	Network        string `envconfig:"NETWORK" default:"mainnet"`
	Verbose        bool   `envconfig:"VERBOSE" default:"false"`
	BackupPassword string `envconfig:"BACKUP_PASSWORD"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	return cfg, nil
}

// BackupPasswordBytes returns a copy of the backup password, or nil if unset.
// Callers should zero the slice after use.
func (c *Config) BackupPasswordBytes() []byte {
	if c.BackupPassword == "" {
		return nil
	}
	return []byte(c.BackupPassword)
}
