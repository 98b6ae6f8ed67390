package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullConfig = `output_dir: out
seed_alignment: data/kunitz_seed.sto
e_value_cutoff: 1e-4
tools:
  hmmbuild: /opt/hmmer/bin/hmmbuild
cohorts:
  - name: validation
    sequences: data/validation.fasta
    labels: data/validation_labels.txt
  - name: swissprot
    sequences: data/swissprot.fasta
annotation:
  keyword: Kunitz
  request_delay_ms: 100
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want out", cfg.OutputDir)
	}
	if cfg.EValueCutoff != 1e-4 {
		t.Errorf("EValueCutoff = %g, want 1e-4", cfg.EValueCutoff)
	}
	if cfg.Tools.Hmmbuild != "/opt/hmmer/bin/hmmbuild" {
		t.Errorf("Tools.Hmmbuild = %q, want /opt/hmmer/bin/hmmbuild", cfg.Tools.Hmmbuild)
	}
	if cfg.Tools.Hmmsearch != DefaultHmmsearch {
		t.Errorf("Tools.Hmmsearch = %q, want default %q", cfg.Tools.Hmmsearch, DefaultHmmsearch)
	}
	if len(cfg.Cohorts) != 2 {
		t.Fatalf("len(Cohorts) = %d, want 2", len(cfg.Cohorts))
	}
	if !cfg.Cohorts[0].Labeled() || cfg.Cohorts[1].Labeled() {
		t.Errorf("Labeled() = %v, %v, want true, false", cfg.Cohorts[0].Labeled(), cfg.Cohorts[1].Labeled())
	}
	if cfg.Annotation.RequestDelayMS != 100 {
		t.Errorf("Annotation.RequestDelayMS = %d, want 100", cfg.Annotation.RequestDelayMS)
	}
	if cfg.Annotation.Pfam != DefaultPfam {
		t.Errorf("Annotation.Pfam = %q, want default %q", cfg.Annotation.Pfam, DefaultPfam)
	}
}

func TestLoadDefaults(t *testing.T) {
	minimal := `seed_alignment: seed.sto
cohorts:
  - name: validation
    sequences: validation.fasta
`
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, DefaultOutputDir)
	}
	if cfg.EValueCutoff != DefaultEValueCutoff {
		t.Errorf("EValueCutoff = %g, want %g", cfg.EValueCutoff, DefaultEValueCutoff)
	}
	if cfg.Annotation.Keyword != DefaultKeyword {
		t.Errorf("Annotation.Keyword = %q, want %q", cfg.Annotation.Keyword, DefaultKeyword)
	}
	if cfg.Annotation.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("Annotation.TimeoutSeconds = %d, want %d", cfg.Annotation.TimeoutSeconds, DefaultTimeoutSeconds)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing seed",
			"cohorts:\n  - name: v\n    sequences: v.fasta\n",
			"seed_alignment is required",
		},
		{
			"no cohorts",
			"seed_alignment: seed.sto\n",
			"at least one cohort",
		},
		{
			"negative cutoff",
			"seed_alignment: seed.sto\ne_value_cutoff: -1\ncohorts:\n  - name: v\n    sequences: v.fasta\n",
			"e_value_cutoff must be positive",
		},
		{
			"unnamed cohort",
			"seed_alignment: seed.sto\ncohorts:\n  - sequences: v.fasta\n",
			"must have a name",
		},
		{
			"unsafe cohort name",
			"seed_alignment: seed.sto\ncohorts:\n  - name: \"bad/name\"\n    sequences: v.fasta\n",
			"not filename-safe",
		},
		{
			"duplicate cohort name",
			"seed_alignment: seed.sto\ncohorts:\n  - name: v\n    sequences: a.fasta\n  - name: v\n    sequences: b.fasta\n",
			"duplicate cohort name",
		},
		{
			"cohort without sequences",
			"seed_alignment: seed.sto\ncohorts:\n  - name: v\n",
			"must have a sequences file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load of missing file succeeded, want error")
	}
}

func TestCohortSplit(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	labeled := cfg.LabeledCohorts()
	if len(labeled) != 1 || labeled[0].Name != "validation" {
		t.Errorf("LabeledCohorts = %+v, want [validation]", labeled)
	}
	unlabeled := cfg.UnlabeledCohorts()
	if len(unlabeled) != 1 || unlabeled[0].Name != "swissprot" {
		t.Errorf("UnlabeledCohorts = %+v, want [swissprot]", unlabeled)
	}
}

func TestAnnotationDurations(t *testing.T) {
	a := Annotation{RequestDelayMS: 250, TimeoutSeconds: 15}
	if got := a.RequestDelay().Milliseconds(); got != 250 {
		t.Errorf("RequestDelay = %dms, want 250ms", got)
	}
	if got := a.Timeout().Seconds(); got != 15 {
		t.Errorf("Timeout = %gs, want 15s", got)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	if got, want := ExpandPath("~/data/seed.sto"), filepath.Join(home, "data/seed.sto"); got != want {
		t.Errorf("ExpandPath = %q, want %q", got, want)
	}
	if got := ExpandPath("data/seed.sto"); got != "data/seed.sto" {
		t.Errorf("ExpandPath = %q, want unchanged", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want empty", got)
	}
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})

	if _, err := Find(); err == nil {
		t.Fatal("Find succeeded with no config present, want error")
	}

	if err := os.WriteFile("config.yaml", []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("writing config.yaml: %v", err)
	}
	path, err := Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if path != "config.yaml" {
		t.Errorf("Find = %q, want config.yaml", path)
	}

	// config/config.yaml wins over the root-level file.
	if err := os.Mkdir("config", 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join("config", "config.yaml"), []byte("x: 1\n"), 0o644); err != nil {
		t.Fatalf("writing config/config.yaml: %v", err)
	}
	path, err = Find()
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if path != filepath.Join("config", "config.yaml") {
		t.Errorf("Find = %q, want config/config.yaml", path)
	}
}
