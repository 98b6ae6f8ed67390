// Package runs owns the on-disk run layout and the run index.
//
// Every pipeline execution writes into a fresh timestamped directory under
// the output root, and the plain-text artifacts inside it are the source
// of truth. The SQLite index kept beside the run directories is a
// convenience view for listing and latest-run discovery; it can always be
// rebuilt by scanning the directories themselves.
package runs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Artifact names inside a run directory.
const (
	ProfileFile        = "profile.hmm"
	MetricsFile        = "metrics.txt"
	FalsePositivesFile = "false_positives.txt"
	FalseNegativesFile = "false_negatives.txt"
	NovelFile          = "novel_candidates.txt"
	SummaryFile        = "summary.txt"

	// IndexFile is the run index database, living beside the run
	// directories rather than inside any of them.
	IndexFile = "runs.db"

	dirPrefix       = "run_"
	timestampLayout = "20060102_150405"
)

// Layout locates every artifact of one run.
type Layout struct {
	ID  string
	Dir string
}

// NewLayout creates a fresh run directory under outputDir. The directory
// name embeds a second-resolution timestamp plus a random suffix, so runs
// started within the same second cannot collide and names still sort in
// start order.
func NewLayout(outputDir string) (*Layout, error) {
	id := time.Now().Format(timestampLayout) + "_" + uuid.New().String()[:8]
	dir := filepath.Join(outputDir, dirPrefix+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory: %w", err)
	}
	return &Layout{ID: id, Dir: dir}, nil
}

// OpenLayout wraps an existing run directory.
func OpenLayout(dir string) (*Layout, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening run directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Layout{
		ID:  strings.TrimPrefix(filepath.Base(dir), dirPrefix),
		Dir: dir,
	}, nil
}

// StartedAt parses the start time embedded in the run ID.
func (l *Layout) StartedAt() (time.Time, error) {
	parts := strings.SplitN(l.ID, "_", 3)
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("run id %q has no timestamp", l.ID)
	}
	ts, err := time.ParseInLocation(timestampLayout, parts[0]+"_"+parts[1], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("run id %q has no timestamp: %w", l.ID, err)
	}
	return ts, nil
}

func (l *Layout) ProfilePath() string {
	return filepath.Join(l.Dir, ProfileFile)
}

// TablePath is the hit table written by the search oracle for one cohort.
func (l *Layout) TablePath(cohort string) string {
	return filepath.Join(l.Dir, "hmmsearch_"+cohort+".tbl")
}

func (l *Layout) MetricsPath() string {
	return filepath.Join(l.Dir, MetricsFile)
}

func (l *Layout) FalsePositivesPath() string {
	return filepath.Join(l.Dir, FalsePositivesFile)
}

func (l *Layout) FalseNegativesPath() string {
	return filepath.Join(l.Dir, FalseNegativesFile)
}

func (l *Layout) NovelPath() string {
	return filepath.Join(l.Dir, NovelFile)
}

func (l *Layout) SummaryPath() string {
	return filepath.Join(l.Dir, SummaryFile)
}

// WriteLines writes one entry per line through a temp file and rename, so
// a crash mid-write never leaves a torn artifact behind.
func WriteLines(path string, lines []string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			tmp.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

// ReadLines reads a line-per-entry artifact, dropping blank lines.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
