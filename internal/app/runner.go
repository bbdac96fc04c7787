package app

import (
	"context"
	"time"

	"opsnap/internal/config"
	"opsnap/pkg/logx"
	"opsnap/pkg/systemd"
)

// Runner regenerates the snapshot on a fixed interval and hot-applies config
// edits between cycles. It is the "opsnap run" mode; "opsnap generate" calls
// App.Generate directly.
type Runner struct {
	manager *config.Manager
	logs    *logx.Service
	log     logx.Logger

	// override, when positive, wins over runner.every from the config file,
	// including across hot reloads.
	override time.Duration
}

// SetInterval forces the generation interval, taking precedence over the
// config file. Call before Run.
func (r *Runner) SetInterval(d time.Duration) {
	if d > 0 {
		r.override = d
	}
}

func NewRunner(manager *config.Manager, logs *logx.Service) *Runner {
	return &Runner{
		manager: manager,
		logs:    logs,
		log:     logs.Logger().With(logx.String("component", "runner")),
	}
}

// Run blocks until ctx is cancelled. One generation happens immediately, then
// one per interval; a config edit takes effect on the next cycle (and
// reschedules the ticker when runner.every changed).
func (r *Runner) Run(ctx context.Context) error {
	settings, err := config.Resolve(r.manager.Get())
	if err != nil {
		return err
	}
	if r.override > 0 {
		settings.RunnerEvery = r.override
	}

	updates := r.manager.Subscribe(1)
	defer r.manager.Unsubscribe(updates)

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() { _ = r.manager.Watch(watchCtx) }()
	go systemd.WatchdogLoop(watchCtx)

	prof := newPprofServer(r.logs.Logger())
	prof.Apply(ctx, settings.Pprof)
	defer prof.Stop(context.Background())

	a, err := New(settings, r.logs.Logger())
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	systemd.NotifyReady()
	defer systemd.NotifyStopping()

	r.generate(ctx, a)

	ticker := time.NewTicker(settings.RunnerEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case cfg, ok := <-updates:
			if !ok {
				return nil
			}
			next, err := config.Resolve(cfg)
			if err != nil {
				// the watcher validates before publishing, so this is unexpected
				r.log.Warn("config update rejected", logx.Err(err))
				continue
			}
			if r.override > 0 {
				next.RunnerEvery = r.override
			}
			r.logs.Apply(logx.Config{
				Level:   next.Logging.Level,
				Console: next.Logging.Console,
				File: logx.FileConfig{
					Enabled: next.Logging.File.Enabled,
					Path:    next.Logging.File.Path,
				},
			})
			if next.RunnerEvery != settings.RunnerEvery {
				ticker.Reset(next.RunnerEvery)
			}
			prof.Apply(ctx, next.Pprof)

			_ = a.Close()
			if a, err = New(next, r.logs.Logger()); err != nil {
				return err
			}
			settings = next
			r.log.Info("config applied",
				logx.Duration("every", settings.RunnerEvery),
				logx.Duration("horizon", settings.Horizon))

		case <-ticker.C:
			r.generate(ctx, a)
		}
	}
}

func (r *Runner) generate(ctx context.Context, a *App) {
	sum, err := a.Generate(ctx)
	if err != nil {
		r.log.Error("generation failed", logx.Err(err))
		return
	}
	r.log.Info("snapshot written",
		logx.Int("activities", sum.Activities),
		logx.Int("jobs", sum.Jobs),
		logx.Int("documents", sum.Documents),
		logx.Duration("took", sum.Took))
}
