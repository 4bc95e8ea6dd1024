// Package cli implements the starcoin command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "starcoin",
	Short: "Starcoin: household tasks, reviews and rewards",
	Long: `Starcoin tracks the tasks children complete each day, lets parents
review them, and turns approved work into coins, XP and achievements.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "starcoin.toml", "Path to the TOML config file")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
