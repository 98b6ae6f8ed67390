package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vanessaxdebs/kunitzdomain/internal/eval"
	"github.com/vanessaxdebs/kunitzdomain/internal/hmmer"
	"github.com/vanessaxdebs/kunitzdomain/internal/labels"
	"github.com/vanessaxdebs/kunitzdomain/internal/pipeline"
	"github.com/vanessaxdebs/kunitzdomain/internal/seqio"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// exitCodeFor maps an error to the exit-code contract: external tool
// failures first, then data problems, then everything else.
func exitCodeFor(err error) int {
	var toolErr *hmmer.ToolError
	if errors.As(err, &toolErr) {
		return ExitToolError
	}

	var formatErr *labels.FormatError
	var conflictErr *labels.ConflictError
	var checkErr *seqio.CheckError
	if errors.As(err, &formatErr) || errors.As(err, &conflictErr) ||
		errors.As(err, &checkErr) || errors.Is(err, os.ErrNotExist) {
		return ExitDataError
	}

	return ExitError
}

// printMatrixHuman prints the confusion matrix block shared by the run
// and evaluate commands.
func printMatrixHuman(m eval.Matrix) {
	fmt.Printf("  TP %d  FP %d  FN %d  TN %d\n", m.TP, m.FP, m.FN, m.TN)
	fmt.Printf("  accuracy %.3f  precision %.3f  recall %.3f  f1 %.3f\n",
		m.Accuracy, m.Precision, m.Recall, m.F1)
}

func printSummaryHuman(s *pipeline.Summary) {
	fmt.Printf("Run %s finished\n", s.RunID)
	fmt.Printf("  dir %s\n", s.RunDir)
	fmt.Printf("  e-value %s\n\n", hmmer.FormatEValue(s.EValue))
	for _, c := range s.Cohorts {
		kind := "unlabeled"
		if c.Labeled {
			kind = "labeled"
		}
		fmt.Printf("  cohort %s: %d hits (%s)\n", c.Name, c.Hits, kind)
	}
	fmt.Println()
	printMatrixHuman(s.Matrix)
	if len(s.FalsePositives) > 0 {
		fmt.Printf("  false positives: %s\n", strings.Join(s.FalsePositives, ", "))
	}
	if len(s.FalseNegatives) > 0 {
		fmt.Printf("  false negatives: %s\n", strings.Join(s.FalseNegatives, ", "))
	}
	if s.Novelty != nil {
		fmt.Printf("\n  novel %d  known %d  undetermined %d\n",
			len(s.Novelty.Novel), len(s.Novelty.Known), len(s.Novelty.Undetermined))
		for _, id := range s.Novelty.Novel {
			fmt.Printf("    novel: %s\n", id)
		}
	}
}
