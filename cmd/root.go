package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/team-mayes/gaussian-wrangler/internal/config"
	"github.com/team-mayes/gaussian-wrangler/internal/utils"
)

var (
	debugMode bool
	quietMode bool
	noSubmit  bool
)

var rootCmd = &cobra.Command{
	Use:           "gwrangler",
	Short:         "gwrangler: prepare, run, submit and post-process Gaussian jobs on Slurm clusters.",
	Version:       config.VERSION,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Step 1: Load defaults
		config.LoadDefaults()

		// Step 2: Initialize Viper (read config file, env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintDebug("Error reading config file: %v", err)
		}
		if err := config.BindFlags(cmd.Flags()); err != nil {
			utils.PrintDebug("Error binding flags: %v", err)
		}

		// Step 3: Load resolved values from Viper into Global config
		config.ApplyToGlobal()

		// Step 4: Apply command-line flags (highest priority)
		if debugMode {
			utils.DebugMode = true
			config.Global.Debug = true
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("gwrangler Version: %s", utils.StyleInfo(config.VERSION))
		}
		if quietMode {
			utils.QuietMode = true
			config.Global.Quiet = true
		}
		if noSubmit {
			config.Global.SubmitJob = false
			utils.PrintDebug("Job submission disabled")
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVarP(&noSubmit, "no-submit", "n", false, "Set up jobs without submitting them")
}
