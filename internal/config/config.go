// Package config loads and validates the pipeline configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	DefaultOutputDir      = "results"
	DefaultEValueCutoff   = 1e-5
	DefaultHmmbuild       = "hmmbuild"
	DefaultHmmsearch      = "hmmsearch"
	DefaultKeyword        = "Kunitz"
	DefaultPfam           = "PF00014"
	DefaultRequestDelayMS = 250
	DefaultTimeoutSeconds = 15
)

// cohortNameRe keeps cohort names safe to embed in artifact filenames.
var cohortNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Config is the full pipeline configuration.
type Config struct {
	OutputDir     string     `yaml:"output_dir" json:"output_dir"`
	SeedAlignment string     `yaml:"seed_alignment" json:"seed_alignment"`
	EValueCutoff  float64    `yaml:"e_value_cutoff" json:"e_value_cutoff"`
	Tools         Tools      `yaml:"tools" json:"tools"`
	Cohorts       []Cohort   `yaml:"cohorts" json:"cohorts"`
	Annotation    Annotation `yaml:"annotation" json:"annotation"`
}

// Tools names the external binaries, either bare (resolved on PATH) or as
// explicit paths.
type Tools struct {
	Hmmbuild  string `yaml:"hmmbuild" json:"hmmbuild"`
	Hmmsearch string `yaml:"hmmsearch" json:"hmmsearch"`
}

// Cohort is one sequence database to search. A cohort with a labels file
// is scored into the confusion matrix; one without is an unlabeled scan
// whose hits only feed the novelty pass.
type Cohort struct {
	Name      string `yaml:"name" json:"name"`
	Sequences string `yaml:"sequences" json:"sequences"`
	Labels    string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Labeled reports whether the cohort carries a ground-truth labels file.
func (c Cohort) Labeled() bool {
	return c.Labels != ""
}

// Annotation configures the novelty pass against the annotation service.
type Annotation struct {
	Keyword        string `yaml:"keyword" json:"keyword"`
	Pfam           string `yaml:"pfam" json:"pfam"`
	RequestDelayMS int    `yaml:"request_delay_ms" json:"request_delay_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	BaseURL        string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Disabled       bool   `yaml:"disabled" json:"disabled"`
}

// RequestDelay returns the inter-request spacing as a duration.
func (a Annotation) RequestDelay() time.Duration {
	return time.Duration(a.RequestDelayMS) * time.Millisecond
}

// Timeout returns the per-request timeout as a duration.
func (a Annotation) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Load reads and validates a config file, applying defaults for anything
// omitted and expanding ~ in file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Defaults
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.EValueCutoff == 0 {
		cfg.EValueCutoff = DefaultEValueCutoff
	}
	if cfg.Tools.Hmmbuild == "" {
		cfg.Tools.Hmmbuild = DefaultHmmbuild
	}
	if cfg.Tools.Hmmsearch == "" {
		cfg.Tools.Hmmsearch = DefaultHmmsearch
	}
	if cfg.Annotation.Keyword == "" {
		cfg.Annotation.Keyword = DefaultKeyword
	}
	if cfg.Annotation.Pfam == "" {
		cfg.Annotation.Pfam = DefaultPfam
	}
	if cfg.Annotation.RequestDelayMS <= 0 {
		cfg.Annotation.RequestDelayMS = DefaultRequestDelayMS
	}
	if cfg.Annotation.TimeoutSeconds <= 0 {
		cfg.Annotation.TimeoutSeconds = DefaultTimeoutSeconds
	}

	// Path expansion
	cfg.OutputDir = ExpandPath(cfg.OutputDir)
	cfg.SeedAlignment = ExpandPath(cfg.SeedAlignment)
	for i := range cfg.Cohorts {
		cfg.Cohorts[i].Sequences = ExpandPath(cfg.Cohorts[i].Sequences)
		cfg.Cohorts[i].Labels = ExpandPath(cfg.Cohorts[i].Labels)
	}

	// Validation
	if cfg.SeedAlignment == "" {
		return nil, fmt.Errorf("%s: seed_alignment is required", path)
	}
	if cfg.EValueCutoff < 0 {
		return nil, fmt.Errorf("%s: e_value_cutoff must be positive, got %g", path, cfg.EValueCutoff)
	}
	if len(cfg.Cohorts) == 0 {
		return nil, fmt.Errorf("%s: at least one cohort is required", path)
	}
	seen := make(map[string]bool)
	for i, cohort := range cfg.Cohorts {
		if cohort.Name == "" {
			return nil, fmt.Errorf("%s: cohort %d must have a name", path, i+1)
		}
		if !cohortNameRe.MatchString(cohort.Name) {
			return nil, fmt.Errorf("%s: cohort name %q is not filename-safe", path, cohort.Name)
		}
		if seen[cohort.Name] {
			return nil, fmt.Errorf("%s: duplicate cohort name %q", path, cohort.Name)
		}
		seen[cohort.Name] = true
		if cohort.Sequences == "" {
			return nil, fmt.Errorf("%s: cohort %q must have a sequences file", path, cohort.Name)
		}
	}

	return &cfg, nil
}

// Find returns the first config file present in the conventional
// locations: config/config.yaml, then config.yaml.
func Find() (string, error) {
	candidates := []string{filepath.Join("config", "config.yaml"), "config.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no config file found (tried %s)", strings.Join(candidates, ", "))
}

// LabeledCohorts returns the cohorts that carry ground truth.
func (c *Config) LabeledCohorts() []Cohort {
	var out []Cohort
	for _, cohort := range c.Cohorts {
		if cohort.Labeled() {
			out = append(out, cohort)
		}
	}
	return out
}

// UnlabeledCohorts returns the database-scan cohorts.
func (c *Config) UnlabeledCohorts() []Cohort {
	var out []Cohort
	for _, cohort := range c.Cohorts {
		if !cohort.Labeled() {
			out = append(out, cohort)
		}
	}
	return out
}

// ExpandPath expands a leading ~ to the user's home directory. Returns the
// path unchanged when it has no ~ prefix or the home directory is unknown.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
