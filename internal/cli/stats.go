package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform engagement statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if err := app.Stats.Fetch(cmd.Context()); err != nil {
		return fmt.Errorf("failed to fetch statistics: %w", err)
	}

	for _, stat := range app.Stats.Stats() {
		fmt.Printf("%-24s %s\n", stat.Label, stat.Value)
	}
	return nil
}
