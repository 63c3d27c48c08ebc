package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"linkedgames/internal/archive"
)

var historyLimit int

// historyCmd lists archived runs from the sqlite history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs from the local archive",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Archive.Path == "" {
		return fmt.Errorf("archive disabled (no archive.path configured)")
	}

	store, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs yet.")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("  %s  solved %d, failed %d  (%s)\n",
			run.RunAt.Format("2006-01-02 15:04:05"), run.Solved, run.Failed, run.RunID)
	}
	return nil
}
