package config

// Config is the full opsnap configuration. JSON is canonical; YAML files are
// accepted and coerced (see yaml.go). Unknown fields are rejected so typos
// surface at load time instead of silently defaulting.
type Config struct {
	Logging LoggingConfig `json:"logging"`

	// Sources locates the input trees the snapshot is built from.
	Sources SourcesConfig `json:"sources"`

	// Jobs configures how scheduled-job records are retrieved.
	Jobs JobsConfig `json:"jobs"`

	// Projection controls the job timeline window.
	Projection ProjectionConfig `json:"projection"`

	Output OutputConfig `json:"output"`

	// Storage is the optional run ledger. Omitted means disabled.
	Storage *StorageConfig `json:"storage,omitempty"`

	// Runner configures periodic mode ("opsnap run").
	Runner RunnerConfig `json:"runner"`

	// Pprof exposes the Go profiler over a local HTTP listener in runner mode.
	Pprof PprofConfig `json:"pprof,omitempty"`
}

type PprofConfig struct {
	Enabled bool `json:"enabled"`
	// Address defaults to "127.0.0.1:6060".
	Address              string `json:"address,omitempty"`
	BlockProfileRate     int    `json:"block_profile_rate,omitempty"`
	MutexProfileFraction int    `json:"mutex_profile_fraction,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type SourcesConfig struct {
	// Sessions is the directory of JSONL session transcripts.
	Sessions string `json:"sessions"`
	// Memory is the directory of per-topic memory markdown files.
	Memory string `json:"memory"`
	// MemoryFile is the root memory markdown file.
	MemoryFile string `json:"memory_file"`
	// Notes is the directory of loose markdown notes.
	Notes string `json:"notes"`

	// MaxSessions caps how many transcripts the activity feed reads (default 30).
	MaxSessions int `json:"max_sessions,omitempty"`
	// MaxIndexSessions caps how many transcripts the search index reads (default 20).
	MaxIndexSessions int `json:"max_index_sessions,omitempty"`
}

// JobsConfig selects the job source. Command wins when both are set.
type JobsConfig struct {
	// Command is the agent CLI invocation, e.g. ["openclaw", "cron", "list"].
	// The generator appends --json and falls back to text output.
	Command []string `json:"command,omitempty"`
	// File is a JSON file of job records (offline/testing).
	File string `json:"file,omitempty"`
	// Timeout is a Go duration string bounding the CLI call (default "10s").
	Timeout string `json:"timeout,omitempty"`
}

type ProjectionConfig struct {
	// Horizon is a Go duration string; the timeline covers [now, now+horizon).
	// Default "336h" (14 days).
	Horizon string `json:"horizon,omitempty"`
	// Timezone is an IANA name for rendering run times (default local).
	Timezone string `json:"timezone,omitempty"`
}

type OutputConfig struct {
	// Dir receives activity.json, cron.json and search-index.json.
	Dir string `json:"dir"`
	// ActivityLimit caps the activity feed (default 500).
	ActivityLimit int `json:"activity_limit,omitempty"`
}

type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}

type RunnerConfig struct {
	// Every is a Go duration string between generations (default "5m").
	Every string `json:"every,omitempty"`
}
