package seqio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCheckFile(t *testing.T) {
	if err := CheckFile(writeTemp(t, "ok.txt", "content\n")); err != nil {
		t.Errorf("CheckFile on good file: %v", err)
	}

	err := CheckFile(filepath.Join(t.TempDir(), "absent.txt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CheckFile on missing file = %v, want ErrNotExist", err)
	}

	err = CheckFile(writeTemp(t, "empty.txt", ""))
	var checkErr *CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("CheckFile on empty file = %v, want *CheckError", err)
	}
	if !strings.Contains(checkErr.Reason, "empty") {
		t.Errorf("Reason = %q, want mention of empty", checkErr.Reason)
	}

	err = CheckFile(t.TempDir())
	if !errors.As(err, &checkErr) {
		t.Errorf("CheckFile on directory = %v, want *CheckError", err)
	}
}

func TestCheckStockholm(t *testing.T) {
	if err := CheckStockholm(writeTemp(t, "seed.sto", sampleStockholm)); err != nil {
		t.Errorf("CheckStockholm on good seed: %v", err)
	}

	err := CheckStockholm(writeTemp(t, "seed.sto", sampleFasta))
	var checkErr *CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("CheckStockholm on FASTA = %v, want *CheckError", err)
	}
	if !strings.Contains(checkErr.Reason, "Stockholm") {
		t.Errorf("Reason = %q, want mention of Stockholm", checkErr.Reason)
	}
}

func TestCheckFasta(t *testing.T) {
	if err := CheckFasta(writeTemp(t, "db.fasta", sampleFasta)); err != nil {
		t.Errorf("CheckFasta on good file: %v", err)
	}

	err := CheckFasta(writeTemp(t, "db.fasta", sampleStockholm))
	var checkErr *CheckError
	if !errors.As(err, &checkErr) {
		t.Fatalf("CheckFasta on Stockholm = %v, want *CheckError", err)
	}

	// A FASTA body polluted with alignment markup is a conversion bug,
	// not a valid database.
	polluted := ">sp|P00974|BPT1_BOVIN\nMKMSRLCLSVALLVLLGTLAASTPGCDTSNQ\n#=GS BPT1_BOVIN AC P00974\n"
	err = CheckFasta(writeTemp(t, "db.fasta", polluted))
	if !errors.As(err, &checkErr) {
		t.Fatalf("CheckFasta on polluted file = %v, want *CheckError", err)
	}
	if !strings.Contains(checkErr.Reason, "line 3") {
		t.Errorf("Reason = %q, want line 3", checkErr.Reason)
	}
}
