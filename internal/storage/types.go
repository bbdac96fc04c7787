package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the run ledger.
//
// Driver values:
//   - "file": dependency-free JSON Lines backend
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", the ledger is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// RunEntry records a single snapshot generation.
// Keep it compact and schema-stable.
type RunEntry struct {
	At         time.Time
	Activities int
	Jobs       int
	Documents  int
	TookMS     int64
	Error      string
}
