package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arbiter-hq/gavel/pkg/cli"
	"arbiter-hq/gavel/pkg/config"
)

const defaultConfigFile = "gavel.yaml"

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "gavel",
	Short: "Gavel - fail-closed policy engine for agent runtimes",
	Long: `Gavel adjudicates agent actions against a declarative rule set and
records every decision to a durable audit trail.

The gavel command provides the operational tooling around the engine:
  - Rule file validation and rule set inspection
  - Audit store queries and exports
  - Retention pruning, one-shot or scheduled`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the status the error
// chain maps to.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
}

// loadConfig loads the file named by --config. The default file may be
// absent, in which case built-in defaults apply; an explicitly
// requested file must exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromFile(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if cfgFile == defaultConfigFile && errors.Is(err, os.ErrNotExist) {
		return config.DefaultConfig(), nil
	}
	return nil, cli.NewConfigError(cfgFile, err)
}
