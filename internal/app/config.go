package app

import (
	"fmt"

	coreconfig "github.com/m3rciful/ratebot/core/config"
	"github.com/m3rciful/ratebot/core/database"
)

// Config is the full bot configuration: the core settings plus PostgreSQL.
type Config struct {
	coreconfig.Config `yaml:",inline"`
	Database          database.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads path (optional) and the environment, then validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.Database.Normalize()
	return &cfg, nil
}
