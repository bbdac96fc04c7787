package cli

import (
	"time"

	"github.com/spf13/cobra"

	"opsnap/internal/app"
)

var runEvery time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Regenerate the snapshot periodically",
	Long: `Runs the generator on a timer (runner.every, default 5m) until
interrupted. The config file is watched; edits apply without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, svc, err := boot()
		if err != nil {
			return err
		}
		defer svc.Close()

		r := app.NewRunner(m, svc)
		if cmd.Flags().Changed("every") {
			r.SetInterval(runEvery)
		}
		return r.Run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().DurationVar(&runEvery, "every", 5*time.Minute,
		"interval between generations (overrides runner.every)")
	rootCmd.AddCommand(runCmd)
}
