// Package pipeline sequences one evaluation run: build the profile from
// the seed alignment, search every cohort, score the hits against the
// ground-truth labels, reconcile unlabeled hits against the annotation
// service, and persist the artifacts into a fresh run directory.
//
// Stages run strictly in order and each stage reads its predecessors'
// artifacts back from the run directory, so a finished run can be
// re-scored or re-annotated later without re-searching.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vanessaxdebs/kunitzdomain/internal/config"
	"github.com/vanessaxdebs/kunitzdomain/internal/eval"
	"github.com/vanessaxdebs/kunitzdomain/internal/hmmer"
	"github.com/vanessaxdebs/kunitzdomain/internal/labels"
	"github.com/vanessaxdebs/kunitzdomain/internal/novelty"
	"github.com/vanessaxdebs/kunitzdomain/internal/runs"
	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
	"github.com/vanessaxdebs/kunitzdomain/internal/seqio"
)

// ProfileBuilder turns a seed alignment into a profile artifact.
type ProfileBuilder interface {
	BuildProfile(ctx context.Context, profilePath, seedPath string) error
}

// SearchOracle scores a sequence database against a profile, writing a
// tabular hit file.
type SearchOracle interface {
	Search(ctx context.Context, tablePath string, evalue float64, profilePath, dbPath string) error
}

// Annotator reconciles hit identifiers against the annotation service.
type Annotator interface {
	Reconcile(ctx context.Context, hits seqid.Set) (*novelty.Report, error)
}

// Pipeline owns one run of the evaluation state machine.
type Pipeline struct {
	cfg       *config.Config
	builder   ProfileBuilder
	oracle    SearchOracle
	annotator Annotator
	store     *runs.Store
	log       *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAnnotator attaches the novelty pass. Without one, the annotate
// stage is skipped.
func WithAnnotator(a Annotator) Option {
	return func(p *Pipeline) { p.annotator = a }
}

// WithStore attaches the run index. Without one, runs leave no index row.
func WithStore(s *runs.Store) Option {
	return func(p *Pipeline) { p.store = s }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New creates a pipeline over the given configuration and tools.
func New(cfg *config.Config, builder ProfileBuilder, oracle SearchOracle, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		builder: builder,
		oracle:  oracle,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CohortResult is the per-cohort slice of a run summary.
type CohortResult struct {
	Name    string `json:"name"`
	Hits    int    `json:"hits"`
	Labeled bool   `json:"labeled"`
}

// Summary is what a finished run reports.
type Summary struct {
	RunID          string          `json:"run_id"`
	RunDir         string          `json:"run_dir"`
	Seed           string          `json:"seed"`
	EValue         float64         `json:"e_value"`
	Cohorts        []CohortResult  `json:"cohorts"`
	Matrix         eval.Matrix     `json:"matrix"`
	FalsePositives []string        `json:"false_positives"`
	FalseNegatives []string        `json:"false_negatives"`
	Novelty        *novelty.Report `json:"novelty,omitempty"`
}

// Run executes the full state machine in a fresh run directory. The first
// fatal error fails the run; the run directory and index row record the
// failed state with its diagnosis.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := p.preflight(); err != nil {
		return nil, err
	}

	layout, err := runs.NewLayout(p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	log := p.log.With(zap.String("run", layout.ID))
	log.Info("run started", zap.String("dir", layout.Dir))

	started, err := layout.StartedAt()
	if err != nil {
		started = time.Now()
	}
	p.index(log, func() error {
		return p.store.Create(runs.Record{
			ID:        layout.ID,
			Dir:       layout.Dir,
			State:     runs.StatePending,
			Seed:      p.cfg.SeedAlignment,
			EValue:    p.cfg.EValueCutoff,
			StartedAt: started,
			UpdatedAt: started,
		})
	})

	summary, err := p.execute(ctx, log, layout)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		p.index(log, func() error {
			return p.store.SetState(layout.ID, runs.StateFailed, err.Error())
		})
		return nil, err
	}

	log.Info("run finished",
		zap.Int("tp", summary.Matrix.TP),
		zap.Int("fp", summary.Matrix.FP),
		zap.Int("fn", summary.Matrix.FN),
		zap.Int("tn", summary.Matrix.TN))
	return summary, nil
}

func (p *Pipeline) execute(ctx context.Context, log *zap.Logger, layout *runs.Layout) (*Summary, error) {
	p.setState(log, layout, runs.StateBuild)
	if err := p.build(ctx, log, layout); err != nil {
		return nil, fmt.Errorf("build stage: %w", err)
	}

	p.setState(log, layout, runs.StateSearch)
	if err := p.search(ctx, log, layout); err != nil {
		return nil, fmt.Errorf("search stage: %w", err)
	}

	p.setState(log, layout, runs.StateEvaluate)
	result, cohorts, err := p.evaluate(log, layout)
	if err != nil {
		return nil, fmt.Errorf("evaluate stage: %w", err)
	}

	p.setState(log, layout, runs.StateAnnotate)
	report, err := p.annotate(ctx, log, layout, cohorts)
	if err != nil {
		return nil, fmt.Errorf("annotate stage: %w", err)
	}

	p.setState(log, layout, runs.StateReport)
	summary := p.summarize(layout, cohorts, result, report)
	p.report(log, layout, summary)

	p.setState(log, layout, runs.StateDone)
	return summary, nil
}

// preflight rejects missing or malformed inputs before any run directory
// exists.
func (p *Pipeline) preflight() error {
	if err := seqio.CheckStockholm(p.cfg.SeedAlignment); err != nil {
		return err
	}
	for _, c := range p.cfg.Cohorts {
		if err := seqio.CheckFasta(c.Sequences); err != nil {
			return err
		}
		if c.Labeled() {
			if err := seqio.CheckFile(c.Labels); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Pipeline) build(ctx context.Context, log *zap.Logger, layout *runs.Layout) error {
	log.Info("building profile", zap.String("seed", p.cfg.SeedAlignment))
	return p.builder.BuildProfile(ctx, layout.ProfilePath(), p.cfg.SeedAlignment)
}

func (p *Pipeline) search(ctx context.Context, log *zap.Logger, layout *runs.Layout) error {
	for _, c := range p.cfg.Cohorts {
		log.Info("searching cohort",
			zap.String("cohort", c.Name),
			zap.Float64("e_value", p.cfg.EValueCutoff))
		err := p.oracle.Search(ctx, layout.TablePath(c.Name), p.cfg.EValueCutoff,
			layout.ProfilePath(), c.Sequences)
		if err != nil {
			return fmt.Errorf("cohort %s: %w", c.Name, err)
		}
	}
	return nil
}

// evaluate parses the hit tables, loads labels, and scores. Artifacts
// reach the run directory only after evaluation succeeded.
func (p *Pipeline) evaluate(log *zap.Logger, layout *runs.Layout) (*eval.Result, []eval.Cohort, error) {
	cohorts := make([]eval.Cohort, 0, len(p.cfg.Cohorts))
	for _, c := range p.cfg.Cohorts {
		hits, err := hmmer.ParseTable(layout.TablePath(c.Name))
		if err != nil {
			return nil, nil, err
		}
		cohort := eval.Cohort{Name: c.Name, Hits: hits}
		if c.Labeled() {
			cohort.Labels, err = labels.Load(c.Labels)
			if err != nil {
				return nil, nil, err
			}
		}
		log.Info("cohort scored", zap.String("cohort", c.Name), zap.Int("hits", len(hits)))
		cohorts = append(cohorts, cohort)
	}

	result, err := eval.Evaluate(cohorts)
	if err != nil {
		return nil, nil, err
	}

	if err := runs.WriteLines(layout.MetricsPath(), metricsLines(result.Matrix)); err != nil {
		return nil, nil, err
	}
	if err := runs.WriteLines(layout.FalsePositivesPath(), result.FalsePositives.Sorted()); err != nil {
		return nil, nil, err
	}
	if err := runs.WriteLines(layout.FalseNegativesPath(), result.FalseNegatives.Sorted()); err != nil {
		return nil, nil, err
	}
	return result, cohorts, nil
}

// annotate sends the hits of unlabeled cohorts through the novelty pass.
// Skipped when no annotator is attached or no unlabeled cohort hit
// anything.
func (p *Pipeline) annotate(ctx context.Context, log *zap.Logger, layout *runs.Layout, cohorts []eval.Cohort) (*novelty.Report, error) {
	if p.annotator == nil {
		log.Info("annotation disabled, skipping novelty pass")
		return nil, nil
	}

	unlabeled := seqid.NewSet()
	for _, c := range cohorts {
		if !c.Labeled() {
			unlabeled = unlabeled.Union(c.Hits)
		}
	}
	if len(unlabeled) == 0 {
		log.Info("no unlabeled cohort hits, skipping novelty pass")
		return nil, nil
	}

	report, err := p.annotator.Reconcile(ctx, unlabeled)
	if err != nil {
		return nil, err
	}
	if err := runs.WriteLines(layout.NovelPath(), report.Novel); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) summarize(layout *runs.Layout, cohorts []eval.Cohort, result *eval.Result, report *novelty.Report) *Summary {
	s := &Summary{
		RunID:          layout.ID,
		RunDir:         layout.Dir,
		Seed:           p.cfg.SeedAlignment,
		EValue:         p.cfg.EValueCutoff,
		Cohorts:        make([]CohortResult, 0, len(cohorts)),
		Matrix:         result.Matrix,
		FalsePositives: result.FalsePositives.Sorted(),
		FalseNegatives: result.FalseNegatives.Sorted(),
		Novelty:        report,
	}
	for _, c := range cohorts {
		s.Cohorts = append(s.Cohorts, CohortResult{
			Name:    c.Name,
			Hits:    len(c.Hits),
			Labeled: c.Labeled(),
		})
	}
	return s
}

// report writes the human-readable summary. Best-effort: a run that got
// this far is done, whatever happens to summary.txt.
func (p *Pipeline) report(log *zap.Logger, layout *runs.Layout, s *Summary) {
	if err := runs.WriteLines(layout.SummaryPath(), summaryLines(s)); err != nil {
		log.Warn("writing run summary", zap.Error(err))
	}
}

// setState records a state transition in the log and the run index.
func (p *Pipeline) setState(log *zap.Logger, layout *runs.Layout, state string) {
	log.Info("stage entered", zap.String("state", state))
	p.index(log, func() error {
		return p.store.SetState(layout.ID, state, "")
	})
}

// index applies fn to the run index when one is attached. Index writes
// are best-effort: the run directory is the truth and a failed index
// update must not fail the run.
func (p *Pipeline) index(log *zap.Logger, fn func() error) {
	if p.store == nil {
		return
	}
	if err := fn(); err != nil {
		log.Warn("run index update failed", zap.Error(err))
	}
}

func metricsLines(m eval.Matrix) []string {
	return []string{
		fmt.Sprintf("TP: %d", m.TP),
		fmt.Sprintf("FP: %d", m.FP),
		fmt.Sprintf("FN: %d", m.FN),
		fmt.Sprintf("TN: %d", m.TN),
		fmt.Sprintf("accuracy: %.6f", m.Accuracy),
		fmt.Sprintf("precision: %.6f", m.Precision),
		fmt.Sprintf("recall: %.6f", m.Recall),
		fmt.Sprintf("f1: %.6f", m.F1),
	}
}

func summaryLines(s *Summary) []string {
	lines := []string{
		"run " + s.RunID,
		"seed " + s.Seed,
		"e-value " + hmmer.FormatEValue(s.EValue),
		"",
	}
	for _, c := range s.Cohorts {
		kind := "unlabeled"
		if c.Labeled {
			kind = "labeled"
		}
		lines = append(lines, fmt.Sprintf("cohort %s: %d hits (%s)", c.Name, c.Hits, kind))
	}
	lines = append(lines, "",
		fmt.Sprintf("TP %d  FP %d  FN %d  TN %d", s.Matrix.TP, s.Matrix.FP, s.Matrix.FN, s.Matrix.TN),
		fmt.Sprintf("accuracy %.3f  precision %.3f  recall %.3f  f1 %.3f",
			s.Matrix.Accuracy, s.Matrix.Precision, s.Matrix.Recall, s.Matrix.F1))
	if s.Novelty != nil {
		lines = append(lines, "",
			fmt.Sprintf("novel %d  known %d  undetermined %d",
				len(s.Novelty.Novel), len(s.Novelty.Known), len(s.Novelty.Undetermined)))
	}
	return lines
}
