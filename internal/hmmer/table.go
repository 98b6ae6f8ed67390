package hmmer

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
)

// ParseTable reads a --tblout hit table and returns the canonical target
// identifiers. "#" comment lines and blank lines are skipped; only the
// first whitespace-delimited column of each data row (the target name) is
// consumed, so duplicate domain hits on one target collapse to one member.
// A table with headers but no data rows parses to an empty set.
func ParseTable(path string) (seqid.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hit table: %w", err)
	}
	defer f.Close()

	hits := seqid.NewSet()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		hits.Add(seqid.Canonical(fields[0]))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading hit table: %w", err)
	}
	return hits, nil
}
