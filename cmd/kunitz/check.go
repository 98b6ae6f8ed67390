package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vanessaxdebs/kunitzdomain/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the configured data files",
	Long: `Verify the configured inputs without running anything: the seed
alignment and cohort databases must exist in the right format, label
files must parse, and no seed sequence may leak into a cohort database.

Leaked seed sequences are reported as warnings; the run is still
possible but its scores would be inflated.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	rep := pipeline.Check(cfg)

	if humanOutput {
		for _, issue := range rep.Issues {
			fmt.Printf("  [%s] %s: %s\n", strings.ToUpper(issue.Severity), issue.Path, issue.Message)
		}
		if rep.OK {
			fmt.Println("Data check: OK")
		} else {
			fmt.Println("Data check: FAILED")
		}
	} else {
		outputJSON(rep)
	}

	if !rep.OK {
		os.Exit(ExitDataError)
	}
	return nil
}
