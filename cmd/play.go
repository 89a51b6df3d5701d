package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a training session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, playCmd} {
		c.Flags().String("server", "", "Scoring service URL (overrides PHONIX_SERVER_URL)")
		c.Flags().String("metrics-addr", "", "Serve client metrics on this address, e.g. :9100")
		c.Flags().Bool("no-splash", false, "Skip the splash screen")
	}
}
