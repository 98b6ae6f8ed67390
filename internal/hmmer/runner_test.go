package hmmer

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatEValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1e-5, "1e-05"},
		{0.001, "0.001"},
		{1, "1"},
		{2.5e-10, "2.5e-10"},
	}
	for _, tt := range tests {
		if got := FormatEValue(tt.in); got != tt.want {
			t.Errorf("FormatEValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunnerMissingBinary(t *testing.T) {
	// A path inside a fresh temp dir is guaranteed not to resolve.
	missing := filepath.Join(t.TempDir(), "no-such-hmmbuild")
	r := NewRunner(missing, missing, nil)

	err := r.BuildProfile(context.Background(), "profile.hmm", "seed.sto")
	var terr *ToolError
	if !errors.As(err, &terr) {
		t.Fatalf("BuildProfile error = %v, want ToolError", err)
	}
	if terr.Tool != missing {
		t.Errorf("ToolError.Tool = %q, want %q", terr.Tool, missing)
	}
	if terr.Unwrap() == nil {
		t.Error("ToolError.Unwrap() = nil, want underlying error")
	}
}

func TestRunnerProbeMissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-hmmsearch")
	r := NewRunner(missing, missing, nil)

	err := r.Probe()
	var terr *ToolError
	if !errors.As(err, &terr) {
		t.Fatalf("Probe error = %v, want ToolError", err)
	}
}

func TestToolErrorMessage(t *testing.T) {
	err := &ToolError{
		Tool:   "hmmsearch",
		Stderr: "Error: Failed to open sequence file db.fasta for reading",
		Err:    errors.New("exit status 1"),
	}
	msg := err.Error()
	for _, want := range []string{"hmmsearch", "exit status 1", "Failed to open sequence file"} {
		if !strings.Contains(msg, want) {
			t.Errorf("ToolError.Error() = %q, missing %q", msg, want)
		}
	}

	bare := &ToolError{Tool: "hmmbuild", Err: errors.New("executable file not found")}
	if got := bare.Error(); !strings.Contains(got, "hmmbuild") {
		t.Errorf("ToolError.Error() = %q, missing tool name", got)
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner("", "", nil)
	if r.hmmbuild != "hmmbuild" || r.hmmsearch != "hmmsearch" {
		t.Errorf("NewRunner defaults = %q, %q, want hmmbuild, hmmsearch", r.hmmbuild, r.hmmsearch)
	}
	if r.log == nil {
		t.Error("NewRunner left logger nil")
	}
}
