package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve RAW_ID...",
	Short: "Show the canonical form of sequence identifiers",
	Long: `Print the canonical key for each raw identifier, exactly as hit
tables, label files, and annotation lookups will see it.

Examples:
  kunitz resolve "sp|P00974|BPT1_BOVIN"
  kunitz resolve "BPT1_BOVIN/36-93" "tr|A0A023GPI8|A0A023GPI8_CANBL" --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

// Resolution pairs a raw identifier with its canonical form.
type Resolution struct {
	Raw       string `json:"raw"`
	Canonical string `json:"canonical"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	resolutions := make([]Resolution, 0, len(args))
	for _, raw := range args {
		resolutions = append(resolutions, Resolution{Raw: raw, Canonical: seqid.Canonical(raw)})
	}

	if humanOutput {
		for _, r := range resolutions {
			fmt.Printf("%s\t%s\n", r.Raw, r.Canonical)
		}
	} else {
		outputJSON(resolutions)
	}
	return nil
}
