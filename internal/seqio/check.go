package seqio

import (
	"fmt"
	"os"
	"strings"
)

// CheckError reports an input file that failed pre-flight validation for a
// reason other than plain I/O: empty, wrong magic, stray markup.
type CheckError struct {
	Path   string
	Reason string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// CheckFile verifies that path names a non-empty regular file.
func CheckFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return &CheckError{Path: path, Reason: "is a directory"}
	}
	if info.Size() == 0 {
		return &CheckError{Path: path, Reason: "file is empty"}
	}
	return nil
}

// CheckStockholm verifies that path is a non-empty Stockholm alignment.
func CheckStockholm(path string) error {
	if err := CheckFile(path); err != nil {
		return err
	}
	format, err := Sniff(path)
	if err != nil {
		return err
	}
	if format != FormatStockholm {
		return &CheckError{
			Path:   path,
			Reason: fmt.Sprintf("expected a Stockholm alignment, found %s", format),
		}
	}
	return nil
}

// CheckFasta verifies that path is a non-empty FASTA file with no stray
// Stockholm markup left over from a bad format conversion.
func CheckFasta(path string) error {
	if err := CheckFile(path); err != nil {
		return err
	}
	format, err := Sniff(path)
	if err != nil {
		return err
	}
	if format != FormatFasta {
		return &CheckError{
			Path:   path,
			Reason: fmt.Sprintf("expected FASTA, found %s", format),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sc := newScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "#=") || line == "//" {
			return &CheckError{
				Path:   path,
				Reason: fmt.Sprintf("Stockholm markup on line %d", n),
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
