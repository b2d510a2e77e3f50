// Package app implements the application layer for plank.
package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/core/ports"
	"go.trai.ch/plank/internal/engine/planner"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	lockfiles    ports.LockfileLoader
	planner      *planner.Planner
	log          ports.Logger
}

// New creates a new App instance.
func New(configLoader ports.ConfigLoader, lockfiles ports.LockfileLoader, p *planner.Planner, log ports.Logger) *App {
	return &App{
		configLoader: configLoader,
		lockfiles:    lockfiles,
		planner:      p,
		log:          log,
	}
}

// PlanOptions carries the CLI-level overrides for a planning run.
type PlanOptions struct {
	// IncludeDev forces dev-only lockfile entries into the plan
	// regardless of the configured default.
	IncludeDev bool

	// OutDir overrides the configured output directory when non-empty.
	OutDir string
}

// Plan computes and writes the overlay plan documents for the requested
// targets. Targets name workspace members by declared package name or
// member path; "." names the project root. With no targets given, the
// configured target list applies, then every declared workspace, then
// the root for projects without workspaces.
func (a *App) Plan(ctx context.Context, targetNames []string, opts PlanOptions) error {
	// 1. Load configuration and lockfile
	cfg, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if opts.IncludeDev {
		cfg.IncludeDev = true
	}
	if opts.OutDir != "" {
		cfg.OutDir = opts.OutDir
	}

	idx, err := a.lockfiles.Load(".", cfg.IncludeDev)
	if err != nil {
		return zerr.Wrap(err, "failed to load lockfile")
	}

	// 2. Validate the inter-workspace graph before planning anything
	graph, err := workspaceGraph(idx)
	if err != nil {
		return err
	}

	// 3. Resolve the target set
	targets, err := selectTargets(idx, targetNames, cfg.Targets)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}

	// 4. Plan each target; plans share only the immutable index
	eg, ctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		eg.Go(func() error {
			return a.planOne(ctx, idx, cfg, graph, target)
		})
	}
	return eg.Wait()
}

func (a *App) planOne(
	ctx context.Context,
	idx *domain.Index,
	cfg *domain.ProjectConfig,
	graph *domain.WorkspaceGraph,
	target domain.HierarchyPath,
) error {
	order, err := workspaceOrder(idx, graph, target)
	if err != nil {
		return err
	}

	plan, cached, err := a.planner.PlanTarget(ctx, idx, cfg, target, order)
	if err != nil {
		return err
	}

	encoded, err := plan.Encode()
	if err != nil {
		return zerr.Wrap(err, "failed to encode plan")
	}

	file := filepath.Join(cfg.OutDir, PlanFileName(target))
	if err := os.WriteFile(file, encoded, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write plan document")
	}

	a.log.Info("plan written",
		"target", targetLabel(target),
		"file", file,
		"packages", len(plan.Packages),
		"cached", cached,
	)
	return nil
}

// workspaceGraph builds the dependency graph between declared workspace
// members from the index edges and validates it for cycles.
func workspaceGraph(idx *domain.Index) (*domain.WorkspaceGraph, error) {
	g := domain.NewWorkspaceGraph()
	for _, ws := range idx.Workspaces() {
		if err := g.AddMember(ws); err != nil {
			return nil, err
		}
	}
	for _, ws := range idx.Workspaces() {
		for _, edge := range idx.Edges(ws.Path) {
			g.AddDependency(ws.Name, edge.Name)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// workspaceOrder returns the workspace members a plan for the target
// covers, dependencies first. The root target covers every member in
// validated global order.
func workspaceOrder(idx *domain.Index, graph *domain.WorkspaceGraph, target domain.HierarchyPath) ([]domain.Workspace, error) {
	if target.IsRoot() {
		var order []domain.Workspace
		for ws := range graph.Walk() {
			order = append(order, ws)
		}
		return order, nil
	}

	ws, ok := idx.WorkspaceByPath(target)
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownWorkspace, "ordering workspace dependencies"), "workspace", target.String())
	}
	return graph.DependencyOrder(ws.Name)
}

// selectTargets maps the requested target names to hierarchy paths.
// CLI arguments take precedence over configured targets.
func selectTargets(idx *domain.Index, args, configured []string) ([]domain.HierarchyPath, error) {
	names := make([]string, 0, len(args))
	for _, name := range args {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	if len(args) > 0 && len(names) == 0 {
		return nil, domain.ErrNoTargetsSpecified
	}
	if len(names) == 0 {
		names = configured
	}

	if len(names) == 0 {
		workspaces := idx.Workspaces()
		if len(workspaces) == 0 {
			return []domain.HierarchyPath{domain.RootPath}, nil
		}
		paths := make([]domain.HierarchyPath, 0, len(workspaces))
		for _, ws := range workspaces {
			paths = append(paths, ws.Path)
		}
		return paths, nil
	}

	seen := make(map[domain.HierarchyPath]bool, len(names))
	paths := make([]domain.HierarchyPath, 0, len(names))
	for _, name := range names {
		p, err := resolveTarget(idx, name)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true
		paths = append(paths, p)
	}
	return paths, nil
}

func resolveTarget(idx *domain.Index, name string) (domain.HierarchyPath, error) {
	if name == "." {
		return domain.RootPath, nil
	}
	if p, ok := idx.WorkspaceByName(domain.NewInternedString(name)); ok {
		return p, nil
	}
	if _, ok := idx.WorkspaceByPath(domain.HierarchyPath(name)); ok {
		return domain.HierarchyPath(name), nil
	}
	return domain.RootPath, zerr.With(zerr.Wrap(domain.ErrUnknownWorkspace, "selecting targets"), "workspace", name)
}

// PlanFileName derives the plan document name for a target, flattening
// path separators so every plan lands directly in the output directory.
func PlanFileName(target domain.HierarchyPath) string {
	return "plan-" + targetLabel(target) + ".json"
}

func targetLabel(target domain.HierarchyPath) string {
	if target.IsRoot() {
		return "root"
	}
	return strings.ReplaceAll(target.String(), "/", "-")
}
