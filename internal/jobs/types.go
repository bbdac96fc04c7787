package jobs

// Record is one scheduled job as the upstream agent CLI reports it. All
// fields are opaque strings; Schedule and Next are the only ones this package
// interprets (and both defensively).
type Record struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Schedule string `json:"schedule"`
	Status   string `json:"status"`
	LastRun  string `json:"last"`
	Next     string `json:"next"`
}

// Report is the per-job dashboard row: the record's descriptive fields passed
// through, plus the projected run timeline.
type Report struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Schedule string   `json:"schedule"`
	Status   string   `json:"status"`
	LastRun  string   `json:"lastRun"`
	NextRuns []string `json:"nextRuns"`
}
