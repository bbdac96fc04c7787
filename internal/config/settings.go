package config

import (
	"fmt"
	"time"
)

const (
	defaultHorizon       = 336 * time.Hour // 14 days
	defaultJobsTimeout   = 10 * time.Second
	defaultRunnerEvery   = 5 * time.Minute
	defaultActivityLimit = 500
)

// Settings is the resolved form of Config: durations parsed, timezone loaded,
// defaults applied. Everything downstream consumes Settings, never raw Config.
type Settings struct {
	Logging LoggingConfig

	Sources SourcesConfig

	JobsCommand []string
	JobsFile    string
	JobsTimeout time.Duration

	Horizon  time.Duration
	Location *time.Location

	OutputDir     string
	ActivityLimit int

	Storage *StorageConfig

	RunnerEvery time.Duration
	Pprof       PprofConfig
}

// Validate checks the parts of Config that must be rejected at load time.
// Resolve repeats the duration parsing, so Validate only needs to surface
// errors, not keep results.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	_, err := Resolve(cfg)
	return err
}

func Resolve(cfg *Config) (*Settings, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	s := &Settings{
		Logging:     cfg.Logging,
		Sources:     cfg.Sources,
		JobsCommand: cfg.Jobs.Command,
		JobsFile:    cfg.Jobs.File,
		OutputDir:   cfg.Output.Dir,
		Storage:     cfg.Storage,
		Pprof:       cfg.Pprof,
	}

	if s.OutputDir == "" {
		return nil, fmt.Errorf("output.dir: required")
	}

	var err error
	if s.JobsTimeout, err = ParseDurationOrDefault("jobs.timeout", cfg.Jobs.Timeout, defaultJobsTimeout); err != nil {
		return nil, err
	}
	if s.Horizon, err = ParseDurationOrDefault("projection.horizon", cfg.Projection.Horizon, defaultHorizon); err != nil {
		return nil, err
	}
	if s.RunnerEvery, err = ParseDurationOrDefault("runner.every", cfg.Runner.Every, defaultRunnerEvery); err != nil {
		return nil, err
	}

	s.Location = time.Local
	if tz := cfg.Projection.Timezone; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("projection.timezone: %w", err)
		}
		s.Location = loc
	}

	s.ActivityLimit = cfg.Output.ActivityLimit
	if s.ActivityLimit <= 0 {
		s.ActivityLimit = defaultActivityLimit
	}

	if st := cfg.Storage; st != nil {
		switch st.Driver {
		case "file", "sqlite":
		case "":
			return nil, fmt.Errorf("storage.driver: required when storage is set")
		default:
			return nil, fmt.Errorf("storage.driver: unknown driver %q", st.Driver)
		}
		if st.Path == "" {
			return nil, fmt.Errorf("storage.path: required when storage is set")
		}
		if _, err := ParseDurationField("storage.busy_timeout", st.BusyTimeout); err != nil {
			return nil, err
		}
	}

	return s, nil
}
