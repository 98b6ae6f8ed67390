// Package novelty reconciles predicted hits against an annotation service
// to separate sequences already curated as family members from new
// candidates worth a human look.
//
// The whole pass is best-effort: the service is remote and flaky, and a
// lookup failure must never invalidate an otherwise finished run. Anything
// that cannot be answered lands in the Undetermined bucket instead of
// being guessed novel or known.
package novelty

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
	"github.com/vanessaxdebs/kunitzdomain/internal/uniprot"
)

// Annotator is the slice of the annotation client the reconciler needs.
// *uniprot.Client satisfies it.
type Annotator interface {
	ResolveMnemonic(ctx context.Context, mnemonic string) (string, error)
	GetEntry(ctx context.Context, accession string) (*uniprot.Entry, error)
}

// Report buckets every reconciled identifier exactly once. Each bucket is
// sorted. Novel is the artifact that gets persisted; Undetermined exists
// so that lookup failures are visible instead of silently inflating either
// of the other two.
type Report struct {
	Novel        []string `json:"novel"`
	Known        []string `json:"known"`
	Undetermined []string `json:"undetermined"`
}

// Reconciler classifies hit identifiers by querying an annotation service.
type Reconciler struct {
	client  Annotator
	keyword string
	pfam    string
	log     *zap.Logger
}

// NewReconciler builds a Reconciler looking for the given family keyword
// and Pfam accession. A nil logger falls back to a no-op one.
func NewReconciler(client Annotator, keyword, pfam string, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{client: client, keyword: keyword, pfam: pfam, log: log}
}

// Reconcile classifies every identifier in hits, in sorted order so that
// repeated runs query the service identically. Entry-name-shaped
// identifiers (containing "_") are first resolved to an accession through
// the mnemonic search; accession-shaped ones are fetched directly. Only
// context cancellation aborts the pass.
func (r *Reconciler) Reconcile(ctx context.Context, hits seqid.Set) (*Report, error) {
	ids := hits.Sorted()
	report := &Report{
		Novel:        []string{},
		Known:        []string{},
		Undetermined: []string{},
	}
	r.log.Info("reconciling hits against annotation service", zap.Int("hits", len(ids)))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.log.Debug("checking identifier", zap.String("id", id), zap.Int("index", i+1), zap.Int("total", len(ids)))

		acc, err := r.accessionFor(ctx, id)
		if err != nil {
			r.log.Warn("accession lookup failed", zap.String("id", id), zap.Error(err))
			report.Undetermined = append(report.Undetermined, id)
			continue
		}

		entry, err := r.client.GetEntry(ctx, acc)
		if err != nil {
			r.log.Warn("entry fetch failed", zap.String("id", id), zap.String("accession", acc), zap.Error(err))
			report.Undetermined = append(report.Undetermined, id)
			continue
		}

		if entry.HasDomainAnnotation(r.keyword, r.pfam) {
			report.Known = append(report.Known, id)
		} else {
			r.log.Info("novel candidate", zap.String("id", id), zap.String("accession", acc))
			report.Novel = append(report.Novel, id)
		}
	}

	r.log.Info("reconciliation finished",
		zap.Int("novel", len(report.Novel)),
		zap.Int("known", len(report.Known)),
		zap.Int("undetermined", len(report.Undetermined)))
	return report, nil
}

func (r *Reconciler) accessionFor(ctx context.Context, id string) (string, error) {
	if strings.Contains(id, "_") {
		return r.client.ResolveMnemonic(ctx, id)
	}
	return id, nil
}
