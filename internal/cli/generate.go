package cli

import (
	"github.com/spf13/cobra"

	"opsnap/internal/app"
	"opsnap/pkg/logx"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build the snapshot once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, settings, svc, err := boot()
		if err != nil {
			return err
		}
		defer svc.Close()
		log := svc.Logger()

		a, err := app.New(settings, log)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		sum, err := a.Generate(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("snapshot written",
			logx.String("dir", settings.OutputDir),
			logx.Int("activities", sum.Activities),
			logx.Int("jobs", sum.Jobs),
			logx.Int("documents", sum.Documents),
			logx.Duration("took", sum.Took))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
