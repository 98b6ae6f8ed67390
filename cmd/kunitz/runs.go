package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vanessaxdebs/kunitzdomain/internal/runs"
)

var (
	runsLimit   int
	runsRebuild bool
)

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "Show at most this many runs (0 = all)")
	runsCmd.Flags().BoolVar(&runsRebuild, "rebuild", false, "Rebuild the index from the run directories")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List indexed runs",
	Long: `List runs recorded in the run index, newest first.

With --rebuild the index is reconstructed by scanning the run
directories first; the directories are the truth and the index only
mirrors them.`,
	RunE: runRuns,
}

// RunsResult is the response for the runs command.
type RunsResult struct {
	Runs []runs.Record `json:"runs"`
}

// RunsRebuildResult is the response for runs --rebuild.
type RunsRebuildResult struct {
	Status string `json:"status"`
	Runs   int    `json:"runs"`
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if _, err := os.Stat(cfg.OutputDir); errors.Is(err, os.ErrNotExist) {
		if humanOutput {
			fmt.Println("No runs yet.")
		} else {
			outputJSON(RunsResult{Runs: []runs.Record{}})
		}
		return nil
	}

	store, err := runs.OpenStore(filepath.Join(cfg.OutputDir, runs.IndexFile))
	if err != nil {
		exitWithError(ExitError, "opening run index: %v", err)
	}
	defer store.Close()

	if runsRebuild {
		records, err := runs.Scan(cfg.OutputDir)
		if err != nil {
			exitWithError(ExitDataError, "scanning run directories: %v", err)
		}
		count, err := store.Rebuild(records)
		if err != nil {
			exitWithError(ExitError, "rebuilding run index: %v", err)
		}
		if humanOutput {
			fmt.Printf("Rebuilt run index with %d runs\n", count)
		} else {
			outputJSON(RunsRebuildResult{Status: "rebuilt", Runs: count})
		}
		return nil
	}

	records, err := store.List(runsLimit)
	if err != nil {
		exitWithError(ExitError, "listing runs: %v", err)
	}
	if records == nil {
		records = []runs.Record{}
	}

	if humanOutput {
		if len(records) == 0 {
			fmt.Println("No runs yet.")
			return nil
		}
		for _, rec := range records {
			line := fmt.Sprintf("%s  %-8s  %s", rec.StartedAt.Format("2006-01-02 15:04:05"), rec.State, rec.ID)
			if rec.Error != "" {
				line += "  (" + rec.Error + ")"
			}
			fmt.Println(line)
		}
	} else {
		outputJSON(RunsResult{Runs: records})
	}
	return nil
}
