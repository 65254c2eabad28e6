package app

import "errors"

// Config holds all the configuration an App instance needs to run.
type Config struct {
	PipelinePath string // .hcl file or directory of .hcl files

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 0 {
		return nil, errors.New("WorkerCount cannot be negative")
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 4
	}

	return &cfg, nil
}
