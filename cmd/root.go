package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wlboard/wlboard/internal/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "wlboard",
	Short: "wlboard - a worklog board for your issue tracker",
	Long: `wlboard tracks in-progress work timers and starred issues against a
hosted issue tracker, and shows and exports your submitted worklogs per
day. Timers and stars are stored on the tracker itself, so they follow
you across machines.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(starCmd)
	rootCmd.AddCommand(starredCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(exportCmd)
}

// setup builds the logger and app context for a command run.
func setup() (*app, error) {
	return newApp(logger.New(verbose))
}
