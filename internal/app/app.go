// Package app wires the scanners, the job projector and the report writer
// into the snapshot pipeline, and drives it once (generate) or on a timer
// (run).
package app

import (
	"context"
	"time"

	"opsnap/internal/config"
	"opsnap/internal/docindex"
	"opsnap/internal/jobs"
	"opsnap/internal/report"
	"opsnap/internal/schedule"
	"opsnap/internal/session"
	"opsnap/internal/storage"
	"opsnap/pkg/logx"
)

type App struct {
	settings *config.Settings
	log      logx.Logger
	store    storage.Store
}

func New(settings *config.Settings, log logx.Logger) (*App, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	a := &App{settings: settings, log: log}

	if st := settings.Storage; st != nil {
		busy, _ := config.ParseDurationField("storage.busy_timeout", st.BusyTimeout)
		store, err := storage.Open(storage.Config{
			Driver:      st.Driver,
			Path:        st.Path,
			BusyTimeout: busy,
		}, log.With(logx.String("component", "storage")))
		if err != nil {
			return nil, err
		}
		a.store = store
	}
	return a, nil
}

func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Summary is what one generation produced, for logging and the run ledger.
type Summary struct {
	Activities int
	Jobs       int
	Documents  int
	Took       time.Duration
}

// Generate builds all three snapshot files. Input problems degrade to empty
// sections; only output-side failures (write errors) are returned.
func (a *App) Generate(ctx context.Context) (Summary, error) {
	start := time.Now()
	s := a.settings

	scanner := session.NewScanner(s.Sources.Sessions, s.Sources.MaxSessions,
		a.log.With(logx.String("component", "session")))

	activities := scanner.Scan()
	if len(activities) > s.ActivityLimit {
		activities = activities[:s.ActivityLimit]
	}
	if activities == nil {
		// keep the output a JSON array, never null
		activities = []session.Activity{}
	}

	reports := a.jobReports(ctx, start)

	indexer := docindex.New(docindex.Config{
		MemoryDir:   s.Sources.Memory,
		MemoryFile:  s.Sources.MemoryFile,
		NotesDir:    s.Sources.Notes,
		MaxSessions: s.Sources.MaxIndexSessions,
	}, scanner, a.log.With(logx.String("component", "docindex")))
	documents := indexer.Build()

	w := report.NewWriter(s.OutputDir, a.log.With(logx.String("component", "report")))
	var werr error
	for _, out := range []struct {
		name string
		v    any
	}{
		{"activity.json", activities},
		{"cron.json", reports},
		{"search-index.json", documents},
	} {
		if err := w.WriteJSON(out.name, out.v); err != nil && werr == nil {
			werr = err
		}
	}

	sum := Summary{
		Activities: len(activities),
		Jobs:       len(reports),
		Documents:  len(documents),
		Took:       time.Since(start),
	}
	a.recordRun(ctx, start, sum, werr)
	return sum, werr
}

func (a *App) jobReports(ctx context.Context, now time.Time) []jobs.Report {
	s := a.settings
	src := a.jobSource()
	if src == nil {
		return []jobs.Report{}
	}

	records, err := src.List(ctx)
	if err != nil {
		// The dashboard still gets activity and search data; jobs come back
		// on the next generation.
		a.log.Warn("job listing failed", logx.Err(err))
		return []jobs.Report{}
	}

	w := schedule.Window{Now: now, Horizon: s.Horizon}
	return jobs.BuildReports(records, w, s.Location, a.log.With(logx.String("component", "jobs")))
}

func (a *App) jobSource() jobs.Source {
	s := a.settings
	switch {
	case len(s.JobsCommand) > 0:
		return jobs.NewCLISource(s.JobsCommand, s.JobsTimeout, a.log.With(logx.String("component", "jobs")))
	case s.JobsFile != "":
		return jobs.NewFileSource(s.JobsFile)
	default:
		return nil
	}
}

func (a *App) recordRun(ctx context.Context, start time.Time, sum Summary, runErr error) {
	if a.store == nil {
		return
	}
	e := storage.RunEntry{
		At:         start.UTC(),
		Activities: sum.Activities,
		Jobs:       sum.Jobs,
		Documents:  sum.Documents,
		TookMS:     sum.Took.Milliseconds(),
	}
	if runErr != nil {
		e.Error = runErr.Error()
	}
	if err := a.store.AppendRun(ctx, e); err != nil {
		a.log.Warn("run ledger append failed", logx.Err(err))
	}
}
