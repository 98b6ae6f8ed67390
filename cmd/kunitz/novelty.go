package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vanessaxdebs/kunitzdomain/internal/hmmer"
	"github.com/vanessaxdebs/kunitzdomain/internal/novelty"
	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
)

var (
	noveltyRunDir string
	noveltyLimit  int
)

func init() {
	noveltyCmd.Flags().StringVar(&noveltyRunDir, "run", "", "Run directory (default: latest completed run)")
	noveltyCmd.Flags().IntVar(&noveltyLimit, "limit", 0, "Annotate at most this many hits (0 = all)")
	rootCmd.AddCommand(noveltyCmd)
}

var noveltyCmd = &cobra.Command{
	Use:   "novelty",
	Short: "Re-annotate unlabeled hits of a finished run",
	Long: `Send the unlabeled-cohort hits of a finished run through the UniProtKB
annotation pass again, without re-building or re-searching.

Hits already annotated with the target domain are reported as known;
hits the service cannot answer for land in undetermined. The run
directory is only read.`,
	RunE: runNovelty,
}

// NoveltyResult is the response for the novelty command.
type NoveltyResult struct {
	RunID  string          `json:"run_id"`
	Hits   int             `json:"hits"`
	Report *novelty.Report `json:"report"`
}

func runNovelty(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	log := mustBuildLogger()
	defer log.Sync()

	unlabeled := cfg.UnlabeledCohorts()
	if len(unlabeled) == 0 {
		exitWithError(ExitConfigError, "no unlabeled cohort configured, nothing to annotate")
	}

	layout := mustOpenRun(cfg, noveltyRunDir)

	hits := seqid.NewSet()
	for _, c := range unlabeled {
		set, err := hmmer.ParseTable(layout.TablePath(c.Name))
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		hits = hits.Union(set)
	}

	total := len(hits)
	if noveltyLimit > 0 && total > noveltyLimit {
		hits = seqid.NewSet(hits.Sorted()[:noveltyLimit]...)
	}

	report, err := newAnnotator(cfg, log).Reconcile(context.Background(), hits)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	res := NoveltyResult{RunID: layout.ID, Hits: total, Report: report}
	if humanOutput {
		fmt.Printf("Run %s: %d unlabeled hits, %d annotated\n",
			res.RunID, res.Hits, len(hits))
		fmt.Printf("  novel %d  known %d  undetermined %d\n",
			len(report.Novel), len(report.Known), len(report.Undetermined))
		for _, id := range report.Novel {
			fmt.Printf("    novel: %s\n", id)
		}
	} else {
		outputJSON(res)
	}
	return nil
}
