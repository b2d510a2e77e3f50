// Package planner orchestrates the per-target planning pipeline:
// closure, overrides, tree assembly, memoization.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/core/ports"
	"go.trai.ch/plank/internal/engine/assembler"
	"go.trai.ch/plank/internal/engine/closure"
	"go.trai.ch/plank/internal/engine/override"
	"go.trai.ch/zerr"
)

// Planner computes overlay plans. It is stateless apart from its
// collaborators; concurrent PlanTarget calls are safe because plans
// share only the immutable index.
type Planner struct {
	store     ports.PlanStore
	log       ports.Logger
	telemetry ports.Telemetry
}

// NewPlanner creates a new Planner.
func NewPlanner(store ports.PlanStore, log ports.Logger, telemetry ports.Telemetry) *Planner {
	return &Planner{
		store:     store,
		log:       log,
		telemetry: telemetry,
	}
}

// PlanTarget computes the overlay plan for one target: the root path
// for the whole project, or a workspace member path. The returned
// cached flag reports that an identical plan was already memoized for
// (lockfile digest, target, override fingerprint).
func (p *Planner) PlanTarget(
	ctx context.Context,
	idx *domain.Index,
	cfg *domain.ProjectConfig,
	target domain.HierarchyPath,
	wsOrder []domain.Workspace,
) (*domain.Plan, bool, error) {
	_, vertex := p.telemetry.Record(ctx, "plan "+targetLabel(target))

	plan, err := p.compute(idx, cfg, target, wsOrder)
	if err != nil {
		vertex.Complete(err)
		return nil, false, err
	}

	cached, err := p.memoize(plan)
	if err != nil {
		vertex.Complete(err)
		return nil, false, err
	}
	if cached {
		vertex.Cached()
	}
	vertex.Log(domain.LogLevelInfo, fmt.Sprintf("%d packages, %d instructions", len(plan.Packages), len(plan.Instructions)))
	vertex.Complete(nil)

	return plan, cached, nil
}

func (p *Planner) compute(
	idx *domain.Index,
	cfg *domain.ProjectConfig,
	target domain.HierarchyPath,
	wsOrder []domain.Workspace,
) (*domain.Plan, error) {
	cl, err := closure.NewBuilder(idx).Build(target)
	if err != nil {
		return nil, zerr.With(err, "target", target.String())
	}

	// Post-override artifacts, in lockfile insertion order restricted
	// to the closure. Insertion order is what makes collision winners
	// deterministic further down.
	paths := make([]domain.HierarchyPath, 0, cl.Len())
	for rec := range idx.Walk() {
		if cl.Contains(rec.Path) {
			paths = append(paths, rec.Path)
		}
	}

	engine := override.NewEngine(cfg.Overrides)
	artifacts := engine.Apply(paths, func(path domain.HierarchyPath) (domain.Artifact, bool) {
		rec, ok := idx.Record(path)
		if !ok {
			return domain.Artifact{}, false
		}
		return artifactFromRecord(rec, cfg.Method), true
	})

	res, err := assembler.Assemble(artifacts)
	if err != nil {
		return nil, zerr.With(err, "target", target.String())
	}
	for _, col := range res.Collisions {
		p.log.Warn("merge collision",
			"target", targetLabel(target),
			"at", col.At,
			"previous", col.Previous,
			"winner", col.Winner,
		)
	}

	order := make([]domain.HierarchyPath, 0, len(wsOrder))
	for _, ws := range wsOrder {
		order = append(order, ws.Path)
	}

	return &domain.Plan{
		LockfileDigest: idx.Digest(),
		Target:         target,
		OverrideDigest: cfg.Overrides.Fingerprint,
		Packages:       artifacts,
		Root:           res.Root,
		Instructions:   domain.Flatten(res.Root),
		Bins:           res.Bins,
		Collisions:     res.Collisions,
		WorkspaceOrder: order,
	}, nil
}

// memoize records the plan in the store and reports whether an
// identical plan was already present under the same key.
func (p *Planner) memoize(plan *domain.Plan) (bool, error) {
	key := planKey(plan)

	encoded, err := plan.Encode()
	if err != nil {
		return false, zerr.Wrap(err, "failed to encode plan")
	}
	planDigest := fmt.Sprintf("%016x", xxhash.Sum64(encoded))

	info, err := p.store.Get(key)
	if err != nil {
		return false, zerr.Wrap(err, "failed to read plan store")
	}
	if info != nil && info.PlanDigest == planDigest {
		return true, nil
	}

	err = p.store.Put(domain.PlanInfo{
		Key:            key,
		Target:         plan.Target.String(),
		LockfileDigest: plan.LockfileDigest,
		OverrideDigest: plan.OverrideDigest,
		PlanDigest:     planDigest,
		Timestamp:      time.Now(),
	})
	if err != nil {
		return false, zerr.Wrap(err, "failed to store plan info")
	}
	return false, nil
}

func planKey(plan *domain.Plan) string {
	digest := xxhash.New()
	_, _ = digest.WriteString(plan.LockfileDigest)
	_, _ = digest.Write([]byte{0})
	_, _ = digest.WriteString(plan.Target.String())
	_, _ = digest.Write([]byte{0})
	_, _ = digest.WriteString(plan.OverrideDigest)
	return fmt.Sprintf("%016x", digest.Sum64())
}

// artifactFromRecord derives the pre-override artifact for a record.
// Link records and local directories always link; only fetched archives
// honor the configured method.
func artifactFromRecord(rec domain.PackageRecord, method domain.MaterializeMethod) domain.Artifact {
	if rec.IsLink || rec.Source.Integrity == "" {
		method = domain.MethodLink
	}
	return domain.Artifact{
		Path:    rec.Path,
		Name:    rec.Name.String(),
		Version: rec.Version.String(),
		Source:  rec.Source,
		Method:  method,
		Bin:     rec.Bin,
	}
}

func targetLabel(target domain.HierarchyPath) string {
	if target.IsRoot() {
		return "root"
	}
	return target.String()
}
