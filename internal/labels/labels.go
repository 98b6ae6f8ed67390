// Package labels loads ground-truth labeled sets.
//
// A labeled-set file is line oriented: one sequence identifier and one label
// per line, whitespace separated. The label is the literal "1" (the sequence
// carries the domain) or "0" (it does not). Blank lines and "#" comments are
// ignored; any other shape is a hard format error, because a silently
// dropped label skews every downstream metric.
package labels

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
)

// FormatError reports a labeled-set line that does not follow the
// two-field "<identifier> <1|0>" shape.
type FormatError struct {
	Path   string
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}

// ConflictError reports identifiers labeled both positive and negative.
// It is returned by Load when one file contradicts itself and by the
// evaluation engine when the union of several files does.
type ConflictError struct {
	Path string // empty for cross-file conflicts
	IDs  []string
}

func (e *ConflictError) Error() string {
	where := "labeled sets"
	if e.Path != "" {
		where = e.Path
	}
	return fmt.Sprintf("%s: %d identifier(s) labeled both positive and negative: %s",
		where, len(e.IDs), strings.Join(e.IDs, ", "))
}

// Set holds the identifiers parsed from one labeled-set file, keyed by
// canonical identifier. Positives and Negatives are disjoint; Load rejects
// files that break this.
type Set struct {
	Path      string
	Positives seqid.Set
	Negatives seqid.Set
}

// Load reads a labeled-set file. Identifiers are canonicalized on the way
// in, so "sp|P00974|BPT1_BOVIN	1" and "P00974	1" name the same member.
func Load(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening labeled set: %w", err)
	}
	defer f.Close()

	set := &Set{
		Path:      path,
		Positives: seqid.NewSet(),
		Negatives: seqid.NewSet(),
	}
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, &FormatError{
				Path:   path,
				Line:   line,
				Reason: fmt.Sprintf("want 2 fields, got %d", len(fields)),
			}
		}
		id := seqid.Canonical(fields[0])
		switch fields[1] {
		case "1":
			set.Positives.Add(id)
		case "0":
			set.Negatives.Add(id)
		default:
			return nil, &FormatError{
				Path:   path,
				Line:   line,
				Reason: fmt.Sprintf("label %q is not 1 or 0", fields[1]),
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading labeled set: %w", err)
	}
	if both := set.Positives.Intersect(set.Negatives); len(both) > 0 {
		return nil, &ConflictError{Path: path, IDs: both.Sorted()}
	}
	return set, nil
}
