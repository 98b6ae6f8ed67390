package main

import (
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/vanessaxdebs/kunitzdomain/internal/config"
	"github.com/vanessaxdebs/kunitzdomain/internal/logging"
	"github.com/vanessaxdebs/kunitzdomain/internal/novelty"
	"github.com/vanessaxdebs/kunitzdomain/internal/pipeline"
	"github.com/vanessaxdebs/kunitzdomain/internal/runs"
	"github.com/vanessaxdebs/kunitzdomain/internal/uniprot"
)

// resolveConfigPath picks the configuration file: the --config flag,
// then KUNITZ_CONFIG, then the standard search order. Exits when no
// config can be found.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("KUNITZ_CONFIG"); env != "" {
		return env
	}
	path, err := config.Find()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return path
}

// mustLoadConfig loads and validates the effective configuration, exits
// on error.
func mustLoadConfig() *config.Config {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading %s: %v", path, err)
	}
	return cfg
}

// mustBuildLogger builds the process logger honoring --verbose, exits
// on error.
func mustBuildLogger() *zap.Logger {
	log, err := logging.New(verbose)
	if err != nil {
		exitWithError(ExitError, "building logger: %v", err)
	}
	return log
}

// newAnnotator wires the annotation client and reconciler from config.
func newAnnotator(cfg *config.Config, log *zap.Logger) pipeline.Annotator {
	opts := []uniprot.ClientOption{
		uniprot.WithRequestDelay(cfg.Annotation.RequestDelay()),
		uniprot.WithHTTPClient(&http.Client{Timeout: cfg.Annotation.Timeout()}),
	}
	if cfg.Annotation.BaseURL != "" {
		opts = append(opts, uniprot.WithBaseURL(cfg.Annotation.BaseURL))
	}
	client := uniprot.NewClient(opts...)
	return novelty.NewReconciler(client, cfg.Annotation.Keyword, cfg.Annotation.Pfam, log)
}

// mustOpenRun resolves which run to operate on and opens it, exits on
// error: the --run flag, the newest completed run in the index, or the
// newest run directory when the index is absent.
func mustOpenRun(cfg *config.Config, flagDir string) *runs.Layout {
	dir := flagDir
	if dir == "" {
		dir = latestRunDir(cfg)
	}
	layout, err := runs.OpenLayout(dir)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return layout
}

func latestRunDir(cfg *config.Config) string {
	indexPath := filepath.Join(cfg.OutputDir, runs.IndexFile)
	if _, err := os.Stat(indexPath); err == nil {
		if store, err := runs.OpenStore(indexPath); err == nil {
			defer store.Close()
			if rec, err := store.Latest(runs.StateDone); err == nil && rec != nil {
				return rec.Dir
			}
		}
	}

	dir, err := runs.LatestDir(cfg.OutputDir)
	if err != nil {
		exitWithError(ExitConfigError, "no runs under %s: %v", cfg.OutputDir, err)
	}
	return dir
}
