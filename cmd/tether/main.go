package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tetherui/tether/pkg/hooks"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "tether",
		Short: "Hook state runtime tooling",
		Long: `Tether is a per-component hook state runtime for Go.

The CLI provides development tooling around the runtime:
  • bench   - Drive a synthetic component through render/commit cycles
  • serve   - Run a demo component with the devtools inspector
  • version - Print build information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				hooks.DebugMode = true
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug validation and verbose logging")

	rootCmd.AddCommand(
		benchCmd(),
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
