package runs

import (
	"os"
	"path/filepath"
	"testing"
)

// makeRunDir fabricates a run directory the way NewLayout lays it out,
// with a fixed name so ordering assertions stay deterministic.
func makeRunDir(t *testing.T, outputDir, id string, done bool) string {
	t.Helper()
	dir := filepath.Join(outputDir, dirPrefix+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if done {
		if err := os.WriteFile(filepath.Join(dir, SummaryFile), []byte("ok\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return dir
}

func TestListDirs(t *testing.T) {
	out := t.TempDir()
	makeRunDir(t, out, "20250101_120000_aaaa1111", true)
	makeRunDir(t, out, "20250103_120000_cccc3333", false)
	makeRunDir(t, out, "20250102_120000_bbbb2222", true)

	// Noise that must be ignored: a plain file and an unrelated directory.
	if err := os.WriteFile(filepath.Join(out, "run_notadir.txt"), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.Mkdir(filepath.Join(out, "archive"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	dirs, err := ListDirs(out)
	if err != nil {
		t.Fatalf("ListDirs: %v", err)
	}
	if len(dirs) != 3 {
		t.Fatalf("ListDirs returned %d dirs, want 3", len(dirs))
	}
	want := []string{
		"run_20250103_120000_cccc3333",
		"run_20250102_120000_bbbb2222",
		"run_20250101_120000_aaaa1111",
	}
	for i, w := range want {
		if filepath.Base(dirs[i]) != w {
			t.Errorf("dirs[%d] = %s, want %s", i, filepath.Base(dirs[i]), w)
		}
	}
}

func TestLatestDir(t *testing.T) {
	out := t.TempDir()
	if _, err := LatestDir(out); err == nil {
		t.Error("LatestDir on empty output succeeded, want error")
	}

	makeRunDir(t, out, "20250101_120000_aaaa1111", true)
	latest := makeRunDir(t, out, "20250102_120000_bbbb2222", false)

	got, err := LatestDir(out)
	if err != nil {
		t.Fatalf("LatestDir: %v", err)
	}
	if got != latest {
		t.Errorf("LatestDir = %s, want %s", got, latest)
	}
}

func TestScan(t *testing.T) {
	out := t.TempDir()
	makeRunDir(t, out, "20250101_120000_aaaa1111", true)
	makeRunDir(t, out, "20250102_120000_bbbb2222", false)
	// Stray run_* directory without a parseable timestamp is skipped.
	if err := os.Mkdir(filepath.Join(out, "run_scratch"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	records, err := Scan(out)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Scan returned %d records, want 2", len(records))
	}

	// Newest first, and state inferred from the summary artifact.
	if records[0].ID != "20250102_120000_bbbb2222" || records[0].State != StateFailed {
		t.Errorf("records[0] = %s/%s, want 20250102_120000_bbbb2222/%s",
			records[0].ID, records[0].State, StateFailed)
	}
	if records[1].ID != "20250101_120000_aaaa1111" || records[1].State != StateDone {
		t.Errorf("records[1] = %s/%s, want 20250101_120000_aaaa1111/%s",
			records[1].ID, records[1].State, StateDone)
	}

	for _, rec := range records {
		if rec.StartedAt.IsZero() {
			t.Errorf("run %s has zero StartedAt", rec.ID)
		}
		if rec.UpdatedAt.IsZero() {
			t.Errorf("run %s has zero UpdatedAt", rec.ID)
		}
	}
}

func TestScanEmpty(t *testing.T) {
	records, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Scan = %v, want empty", records)
	}
}
