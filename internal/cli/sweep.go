package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	sweepCmd.Flags().StringVar(&sweepFamily, "family", "", "Sweep only this family ID")
	rootCmd.AddCommand(sweepCmd)
}

var sweepFamily string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Auto-approve pending entries from previous days",
	Long: `Approve every pending entry submitted before today at its base reward.
Entries submitted today are left for a parent to review.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var n int
	if sweepFamily != "" {
		n, err = a.eng.Sweep(sweepFamily)
	} else {
		n, err = a.eng.SweepAll()
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Resolved %d pending entries\n", n)
	return nil
}
