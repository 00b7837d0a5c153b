// Package cmd implements the splitux command-line surface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/splitux/internal/config"
	"github.com/bnema/splitux/internal/logger"
)

var (
	// Version is set during build via -ldflags.
	Version = "0.1.0-dev"

	execPath   string
	execArgs   string
	fullscreen bool

	rootCmd = &cobra.Command{
		Use:   "splitux",
		Short: "Splitux - split-screen launcher for games without native co-op",
		Long: `Splitux orchestrates simultaneous launches of 1-4 isolated instances of
one game on a single host, each bound to a distinct input device,
display tile, and audio sink.`,
		SilenceUsage: true,
		RunE:         runRoot,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&execPath, "exec", "", "skip handler selection; launch this executable directly (lite mode)")
	rootCmd.PersistentFlags().StringVar(&execArgs, "args", "", "arguments for --exec")
	rootCmd.PersistentFlags().BoolVar(&fullscreen, "fullscreen", false, "start the progress UI in fullscreen")

	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(setupCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if execPath == "" {
		return cmd.Help()
	}
	return runLiteLaunch(execPath, execArgs, fullscreen)
}

func mustInitConfig() {
	if err := config.Init(); err != nil {
		logger.Errorf("failed to load configuration: %v", err)
		os.Exit(1)
	}
}

func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
