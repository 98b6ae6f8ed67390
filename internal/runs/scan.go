package runs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ListDirs returns every run directory under outputDir, newest name first.
// Timestamped names sort lexicographically, so name order is start order.
func ListDirs(outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", outputDir, err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), dirPrefix) {
			dirs = append(dirs, filepath.Join(outputDir, e.Name()))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	return dirs, nil
}

// LatestDir returns the newest run directory under outputDir. It is the
// index-free fallback for latest-run discovery.
func LatestDir(outputDir string) (string, error) {
	dirs, err := ListDirs(outputDir)
	if err != nil {
		return "", err
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("no run directories under %s", outputDir)
	}
	return dirs[0], nil
}

// Scan rebuilds index records from the run directories themselves. Only
// what the directory carries is recovered: identity, start time, and a
// state inferred from which artifacts made it to disk.
func Scan(outputDir string) ([]Record, error) {
	dirs, err := ListDirs(outputDir)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, dir := range dirs {
		layout, err := OpenLayout(dir)
		if err != nil {
			return nil, err
		}

		started, err := layout.StartedAt()
		if err != nil {
			// Not one of ours; a stray run_* directory is skipped, not fatal.
			continue
		}

		state := StateFailed
		if _, err := os.Stat(layout.SummaryPath()); err == nil {
			state = StateDone
		}

		records = append(records, Record{
			ID:        layout.ID,
			Dir:       dir,
			State:     state,
			StartedAt: started,
			UpdatedAt: modTime(dir, started),
		})
	}
	return records, nil
}

func modTime(path string, fallback time.Time) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.ModTime()
}
