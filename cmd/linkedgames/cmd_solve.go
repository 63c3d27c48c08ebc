package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linkedgames/internal/archive"
	"linkedgames/internal/games"
	"linkedgames/internal/solve"
)

var (
	solveTimeout    time.Duration
	solveResultsDir string
	solveHeadless   bool
	solveNoArchive  bool
)

// solveCmd runs the extraction pipeline for all six games or a subset.
var solveCmd = &cobra.Command{
	Use:   "solve [game...]",
	Short: "Extract today's solutions (all games, or the ones named)",
	Long: `Solves the requested games sequentially, one browser flow at a time.
With no arguments all six games are attempted: pinpoint, crossclimb, zip,
queens, tango, mini_sudoku.

Per-game failures are recorded in the results bundle and do not fail the
command; only a failure to persist the bundle exits non-zero.`,
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().DurationVar(&solveTimeout, "timeout", 0, "per-game budget (default from config, 30s)")
	solveCmd.Flags().StringVar(&solveResultsDir, "results-dir", "", "directory for the results bundle (default from config)")
	solveCmd.Flags().BoolVar(&solveHeadless, "headless", true, "run Chrome headless")
	solveCmd.Flags().BoolVar(&solveNoArchive, "no-archive", false, "skip the sqlite run history")
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Solver.TimeoutMs = int(solveTimeout / time.Millisecond)
	}
	if cmd.Flags().Changed("results-dir") {
		cfg.Solver.ResultsDir = solveResultsDir
	}
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless = solveHeadless
	}

	requested := games.All()
	if len(args) > 0 {
		requested = requested[:0]
		for _, arg := range args {
			g, err := games.Parse(arg)
			if err != nil {
				return err
			}
			requested = append(requested, g)
		}
	}

	solver := solve.New(cfg.Browser, cfg.Solver, logger)
	bundle := solver.SolveAll(context.Background(), requested)

	path, writeErr := solver.WriteBundle(bundle)

	solved := 0
	for _, r := range bundle.Results {
		if r.Solved() {
			solved++
			fmt.Printf("  %-12s solved\n", r.Game)
		} else {
			fmt.Printf("  %-12s failed (%s: %s)\n", r.Game, r.Failure.Kind, r.Failure.Detail)
		}
	}
	fmt.Printf("Solved %d/%d games\n", solved, len(bundle.Results))

	if !solveNoArchive && cfg.Archive.Path != "" {
		if err := recordHistory(cfg.Archive.Path, bundle); err != nil {
			// History is best-effort; the JSON artifact is the durable output.
			logger.Warn("archive update failed", zap.Error(err))
		}
	}

	if writeErr != nil {
		return writeErr
	}
	fmt.Printf("Results written to %s\n", path)
	return nil
}

func recordHistory(path string, bundle solve.Bundle) error {
	store, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordBundle(bundle)
}
