// Package hmmer wraps the external profile tools as child processes and
// parses their tabular hit output. The tools are trusted black boxes: a
// seed alignment goes into the builder, a profile plus a sequence database
// goes into the search oracle, and the only contract is the exit status,
// the artifact files, and the --tblout table format.
package hmmer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ToolError reports a child tool that could not be started or exited
// non-zero. Stderr carries the tool's own diagnostics verbatim; profile
// tools explain their failures well and hiding that costs debugging time.
type ToolError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %v: %s", e.Tool, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Runner invokes the profile builder and search oracle binaries.
type Runner struct {
	hmmbuild  string
	hmmsearch string
	log       *zap.Logger
}

// NewRunner builds a Runner for the given binary names or paths. Empty
// names fall back to "hmmbuild" and "hmmsearch" on PATH; a nil logger
// falls back to a no-op one.
func NewRunner(hmmbuild, hmmsearch string, log *zap.Logger) *Runner {
	if hmmbuild == "" {
		hmmbuild = "hmmbuild"
	}
	if hmmsearch == "" {
		hmmsearch = "hmmsearch"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{hmmbuild: hmmbuild, hmmsearch: hmmsearch, log: log}
}

// BuildProfile runs the profile builder on a seed alignment:
//
//	hmmbuild <profile> <seed>
func (r *Runner) BuildProfile(ctx context.Context, profilePath, seedPath string) error {
	return r.run(ctx, r.hmmbuild, profilePath, seedPath)
}

// Search runs the search oracle against one sequence database:
//
//	hmmsearch --tblout <table> -E <evalue> <profile> <seqdb>
func (r *Runner) Search(ctx context.Context, tablePath string, evalue float64, profilePath, dbPath string) error {
	return r.run(ctx, r.hmmsearch, "--tblout", tablePath, "-E", FormatEValue(evalue), profilePath, dbPath)
}

// Probe reports whether both configured binaries resolve to executables.
func (r *Runner) Probe() error {
	for _, tool := range []string{r.hmmbuild, r.hmmsearch} {
		if _, err := exec.LookPath(tool); err != nil {
			return &ToolError{Tool: tool, Err: err}
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, tool string, args ...string) error {
	r.log.Debug("running tool", zap.String("tool", tool), zap.Strings("args", args))
	start := time.Now()

	cmd := exec.CommandContext(ctx, tool, args...)
	// Output captures the tool's stdout report (discarded) and stashes
	// stderr on the ExitError.
	if _, err := cmd.Output(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ToolError{Tool: tool, Stderr: strings.TrimSpace(string(exitErr.Stderr)), Err: err}
		}
		return &ToolError{Tool: tool, Err: err}
	}

	r.log.Debug("tool finished", zap.String("tool", tool), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// FormatEValue renders a significance threshold the way the search oracle
// expects it on the command line, e.g. 1e-05.
func FormatEValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
