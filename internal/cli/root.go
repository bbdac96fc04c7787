// Package cli defines the opsnap command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"opsnap/internal/config"
	"opsnap/pkg/logx"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "opsnap",
	Short: "Agent workspace snapshot generator",
	Long: `opsnap reads an agent workspace (session transcripts, scheduled jobs,
memory and notes) and writes the dashboard data files: activity.json,
cron.json and search-index.json.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "./opsnap.json",
		"path to config file (json or yaml)")
}

func ExecuteContext(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

// boot loads the config file and brings up the log service from it.
func boot() (*config.Manager, *config.Settings, *logx.Service, error) {
	m := config.NewManager(cfgPath)
	cfg, err := m.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	settings, err := config.Resolve(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	svc, log := logx.New(logx.Config{
		Level:   settings.Logging.Level,
		Console: settings.Logging.Console,
		File: logx.FileConfig{
			Enabled: settings.Logging.File.Enabled,
			Path:    settings.Logging.File.Path,
		},
	})
	m.SetLogger(log.With(logx.String("component", "config")))
	return m, settings, svc, nil
}
