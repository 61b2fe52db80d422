package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath  string   // hcl step blocks
	SettingsPaths []string // hcl settings blocks, later paths win per key

	OutputPath string // script destination; empty means stdout, no manifest
	Force      bool   // treat every job as stale

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if len(cfg.SettingsPaths) == 0 {
		return nil, errors.New("at least one settings path is required")
	}

	return &cfg, nil
}
