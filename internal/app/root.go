package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"powertrim/internal/config"
	"powertrim/internal/mode"
)

var (
	cfgFile string

	// RootCmd is the root command for powertrim
	RootCmd = &cobra.Command{
		Use:   "powertrim",
		Short: "Reversible power-saving profiles for Windows laptops",
		Long: `powertrim stretches battery life by applying a power-saving profile to
the machine, and puts everything back afterwards.

Before the first profile touches anything, powertrim captures the current
settings (power plan, brightness, wireless adapter, services, startup
items) into a backup snapshot. A later restore replays the snapshot, so
the machine ends up exactly where it started.

Profiles:
  powersaver   Moderate: Power saver plan, dimmed display, wireless and
               Bluetooth off, battery saver on, background apps off
  ultrasaver   Aggressive: everything above plus search indexing,
               prefetch, diagnostics, visual effects, notifications,
               and startup items

Quick Start:
  1. powertrim apply powersaver
  2. ...work on battery...
  3. powertrim restore

Features:
  • Snapshot-based restore of the original settings
  • Deferred automatic restore (--revert-after)
  • Operation journal with per-step events
  • One operation at a time via an exclusive lock

Examples:
  # Apply the moderate profile but keep Wi-Fi up
  powertrim apply powersaver --enable-wifi

  # Go aggressive, revert automatically in 90 minutes
  powertrim apply ultrasaver --revert-after 90

  # Put the original settings back
  powertrim restore

  # See what is applied and what is scheduled
  powertrim status

  # Inspect the operation journal
  powertrim log`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			current, err := mode.NewTracker(cfg.ModePath()).Current()
			if err != nil {
				current = mode.Restored
			}

			fmt.Println("powertrim: reversible power-saving profiles for Windows")
			fmt.Println()
			if current == mode.Restored {
				fmt.Println("Run 'powertrim apply powersaver' to apply a profile.")
				fmt.Println("Run 'powertrim --help' for the full reference.")
			} else {
				fmt.Printf("The %s profile is currently applied.\n", current)
				fmt.Println()
				fmt.Println("Tip: Run 'powertrim status' to see snapshot and revert details.")
				fmt.Println("     Run 'powertrim restore' to put the original settings back.")
				fmt.Println("     Run 'powertrim --help' for all commands.")
			}
			return nil
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/powertrim/config.toml)")
	RootCmd.PersistentFlags().String("state-dir", "", "state directory (default: ~/.powertrim)")
	viper.BindPFlag("state.dir", RootCmd.PersistentFlags().Lookup("state-dir"))

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// initConfig layers viper: defaults, then the optional config file, then
// environment variables and bound flags.
func initConfig() {
	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if dir, err := config.Dir(); err == nil {
		viper.AddConfigPath(dir)
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
