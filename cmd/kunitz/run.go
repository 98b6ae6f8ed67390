package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vanessaxdebs/kunitzdomain/internal/hmmer"
	"github.com/vanessaxdebs/kunitzdomain/internal/pipeline"
	"github.com/vanessaxdebs/kunitzdomain/internal/runs"
)

var runNoNovelty bool

func init() {
	runCmd.Flags().BoolVar(&runNoNovelty, "no-novelty", false, "Skip the novelty annotation stage")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the full evaluation pipeline",
	Long: `Build the profile from the seed alignment, search every configured
cohort, score the hits against ground-truth labels, and reconcile
unlabeled hits against UniProtKB annotation.

Each run writes its artifacts into a fresh timestamped directory under
output_dir and records its state transitions in the run index.`,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustBuildLogger()
	defer log.Sync()

	runner := hmmer.NewRunner(cfg.Tools.Hmmbuild, cfg.Tools.Hmmsearch, log)
	if err := runner.Probe(); err != nil {
		exitWithError(ExitToolError, "%v", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		exitWithError(ExitError, "creating output directory: %v", err)
	}

	opts := []pipeline.Option{pipeline.WithLogger(log)}

	// The run index is a convenience view; a broken index degrades to an
	// unindexed run rather than blocking it.
	store, err := runs.OpenStore(filepath.Join(cfg.OutputDir, runs.IndexFile))
	if err != nil {
		log.Warn("run index unavailable", zap.Error(err))
	} else {
		defer store.Close()
		opts = append(opts, pipeline.WithStore(store))
	}

	if !runNoNovelty && !cfg.Annotation.Disabled {
		opts = append(opts, pipeline.WithAnnotator(newAnnotator(cfg, log)))
	}

	summary, err := pipeline.New(cfg, runner, runner, opts...).Run(context.Background())
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		printSummaryHuman(summary)
	} else {
		outputJSON(summary)
	}
	return nil
}
