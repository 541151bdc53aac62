package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/perlytiara/modsync/pkg/logging"
)

// Populated at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbosity    int
	outputFormat string

	rootCmd = &cobra.Command{
		Use:   "modsync",
		Short: "Discover Minecraft instances and keep their mods in sync",
		Long: `modsync finds the Minecraft instances installed by your launchers and
synchronizes their mods against a published modpack release, preserving the
mods you added yourself.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the CLI. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text",
		"Output format: text or json")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(updateAllCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("modsync version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}
