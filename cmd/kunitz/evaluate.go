package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanessaxdebs/kunitzdomain/internal/eval"
	"github.com/vanessaxdebs/kunitzdomain/internal/hmmer"
	"github.com/vanessaxdebs/kunitzdomain/internal/labels"
)

var evaluateRunDir string

func init() {
	evaluateCmd.Flags().StringVar(&evaluateRunDir, "run", "", "Run directory (default: latest completed run)")
	rootCmd.AddCommand(evaluateCmd)
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Re-score a finished run against current labels",
	Long: `Recompute the confusion matrix of a finished run from its persisted
hit tables and the label files currently configured.

The run directory is only read: re-scoring after a label fix never
disturbs the original artifacts.`,
	RunE: runEvaluate,
}

// EvaluateResult is the response for the evaluate command.
type EvaluateResult struct {
	RunID          string      `json:"run_id"`
	RunDir         string      `json:"run_dir"`
	Matrix         eval.Matrix `json:"matrix"`
	FalsePositives []string    `json:"false_positives"`
	FalseNegatives []string    `json:"false_negatives"`
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	layout := mustOpenRun(cfg, evaluateRunDir)

	cohorts := make([]eval.Cohort, 0, len(cfg.Cohorts))
	for _, c := range cfg.Cohorts {
		hits, err := hmmer.ParseTable(layout.TablePath(c.Name))
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		cohort := eval.Cohort{Name: c.Name, Hits: hits}
		if c.Labeled() {
			cohort.Labels, err = labels.Load(c.Labels)
			if err != nil {
				exitWithError(exitCodeFor(err), "%v", err)
			}
		}
		cohorts = append(cohorts, cohort)
	}

	result, err := eval.Evaluate(cohorts)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	res := EvaluateResult{
		RunID:          layout.ID,
		RunDir:         layout.Dir,
		Matrix:         result.Matrix,
		FalsePositives: result.FalsePositives.Sorted(),
		FalseNegatives: result.FalseNegatives.Sorted(),
	}

	if humanOutput {
		fmt.Printf("Run %s\n", res.RunID)
		printMatrixHuman(res.Matrix)
	} else {
		outputJSON(res)
	}
	return nil
}
