// Package seqio reads just enough of the two sequence formats the pipeline
// touches, FASTA and Stockholm, to sniff file types and pull out sequence
// identifiers. It never parses residues; the profile tools own that.
package seqio

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
)

// Format is a sniffed sequence file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatFasta
	FormatStockholm
)

func (f Format) String() string {
	switch f {
	case FormatFasta:
		return "FASTA"
	case FormatStockholm:
		return "Stockholm"
	default:
		return "unknown"
	}
}

// Sniff reports the format of the file at path from its first non-blank
// line: "# STOCKHOLM" for Stockholm alignments, ">" for FASTA.
func Sniff(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sc := newScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "# STOCKHOLM"):
			return FormatStockholm, nil
		case strings.HasPrefix(line, ">"):
			return FormatFasta, nil
		default:
			return FormatUnknown, nil
		}
	}
	if err := sc.Err(); err != nil {
		return FormatUnknown, fmt.Errorf("reading %s: %w", path, err)
	}
	return FormatUnknown, nil
}

// FastaIDs returns the canonical identifiers of every defline in a FASTA
// file: the first whitespace-delimited token after ">".
func FastaIDs(path string) (seqid.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ids := seqid.NewSet()
	sc := newScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}
		fields := strings.Fields(line[1:])
		if len(fields) == 0 {
			continue
		}
		ids.Add(seqid.Canonical(fields[0]))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ids, nil
}

// StockholmIDs returns the canonical identifiers of every sequence in a
// Stockholm alignment: sequence rows plus "#=GS" per-sequence annotation
// lines, which can name members before their rows appear. Other markup,
// the "//" terminator, and blank lines carry no sequence names;
// interleaved blocks repeating a name collapse to one member.
func StockholmIDs(path string) (seqid.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ids := seqid.NewSet()
	sc := newScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "#=GS") {
			if fields := strings.Fields(line); len(fields) >= 2 {
				ids.Add(seqid.Canonical(fields[1]))
			}
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") || line == "//" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		ids.Add(seqid.Canonical(fields[0]))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ids, nil
}

// newScanner sizes the scanner for alignment rows and deflines that can
// exceed the default 64K token limit.
func newScanner(f *os.File) *bufio.Scanner {
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return sc
}
