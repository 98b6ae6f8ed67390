package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vanessaxdebs/kunitzdomain/internal/config"
	"github.com/vanessaxdebs/kunitzdomain/internal/labels"
	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
	"github.com/vanessaxdebs/kunitzdomain/internal/seqio"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one finding of the data check.
type Issue struct {
	Severity string `json:"severity"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

// CheckReport collects every finding of the pre-run data check. OK is
// false when any finding is an error; warnings alone leave it true.
type CheckReport struct {
	OK     bool    `json:"ok"`
	Issues []Issue `json:"issues"`
}

// Check validates the configured inputs without running anything: the
// file pre-flight, label parsing, and seed/cohort identifier overlap.
// Overlap means sequences the profile was trained on also sit in a
// cohort, which inflates the scores; it is reported as a warning, not an
// error, because the files are still runnable.
func Check(cfg *config.Config) *CheckReport {
	rep := &CheckReport{OK: true, Issues: []Issue{}}

	addError := func(path string, err error) {
		rep.OK = false
		msg := err.Error()
		var checkErr *seqio.CheckError
		if errors.As(err, &checkErr) {
			msg = checkErr.Reason
		}
		rep.Issues = append(rep.Issues, Issue{Severity: SeverityError, Path: path, Message: msg})
	}
	addWarning := func(path, msg string) {
		rep.Issues = append(rep.Issues, Issue{Severity: SeverityWarning, Path: path, Message: msg})
	}

	var seedIDs seqid.Set
	if err := seqio.CheckStockholm(cfg.SeedAlignment); err != nil {
		addError(cfg.SeedAlignment, err)
	} else if ids, err := seqio.StockholmIDs(cfg.SeedAlignment); err != nil {
		addError(cfg.SeedAlignment, err)
	} else {
		seedIDs = ids
	}

	for _, c := range cfg.Cohorts {
		if err := seqio.CheckFasta(c.Sequences); err != nil {
			addError(c.Sequences, err)
		} else if seedIDs != nil {
			ids, err := seqio.FastaIDs(c.Sequences)
			if err != nil {
				addError(c.Sequences, err)
			} else if overlap := seedIDs.Intersect(ids); len(overlap) > 0 {
				addWarning(c.Sequences, fmt.Sprintf(
					"cohort %s shares %d identifier(s) with the seed alignment: %s",
					c.Name, len(overlap), strings.Join(overlap.Sorted(), ", ")))
			}
		}

		if c.Labeled() {
			if _, err := labels.Load(c.Labels); err != nil {
				addError(c.Labels, err)
			}
		}
	}

	return rep
}
