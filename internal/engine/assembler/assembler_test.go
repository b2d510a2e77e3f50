package assembler_test

import (
	"errors"
	"strings"
	"testing"

	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/engine/assembler"
)

func artifact(path domain.HierarchyPath, version string) domain.Artifact {
	return domain.Artifact{
		Path:    path,
		Name:    path.PackageName(),
		Version: version,
		Source:  domain.SourceLocator{Resolved: "https://registry.example/" + string(path), Integrity: "sha512-x"},
		Method:  domain.MethodLink,
	}
}

func TestAssemble_Kinds(t *testing.T) {
	res, err := assembler.Assemble([]domain.Artifact{
		artifact("node_modules/a", "1.0.0"),
		artifact("node_modules/a/node_modules/b", "1.0.0"),
		artifact("node_modules/c", "1.0.0"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	nm, ok := res.Root.Child("node_modules")
	if !ok {
		t.Fatal("missing node_modules grouping dir")
	}
	if nm.Kind() != domain.KindMerge {
		t.Errorf("node_modules kind = %s, want merge", nm.Kind())
	}

	a, ok := nm.Child("a")
	if !ok {
		t.Fatal("missing a")
	}
	if a.Kind() != domain.KindOverlay {
		t.Errorf("a kind = %s, want overlay", a.Kind())
	}

	c, ok := nm.Child("c")
	if !ok {
		t.Fatal("missing c")
	}
	if c.Kind() != domain.KindPassThrough {
		t.Errorf("c kind = %s, want pass-through", c.Kind())
	}

	if len(res.Collisions) != 0 {
		t.Errorf("unexpected collisions: %v", res.Collisions)
	}
}

func TestAssemble_InputOrderIndependentShape(t *testing.T) {
	forward, err := assembler.Assemble([]domain.Artifact{
		artifact("node_modules/a", "1.0.0"),
		artifact("node_modules/a/node_modules/b", "1.0.0"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backward, err := assembler.Assemble([]domain.Artifact{
		artifact("node_modules/a/node_modules/b", "1.0.0"),
		artifact("node_modules/a", "1.0.0"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !forward.Root.Equal(backward.Root) {
		t.Error("expected identical trees regardless of input order")
	}
}

func TestAssemble_BinAggregation(t *testing.T) {
	withBin := artifact("node_modules/tool", "1.0.0")
	withBin.Bin = map[string]string{"tool": "cli.js"}

	res, err := assembler.Assemble([]domain.Artifact{withBin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := res.Bins["tool"]; got != "node_modules/tool/cli.js" {
		t.Errorf("bin target = %q", got)
	}
}

func TestAssemble_BinCollisionLastWins(t *testing.T) {
	// Two packages both expose a "run" entrypoint; the later artifact in
	// input order wins and the loss is recorded as a diagnostic.
	first := artifact("node_modules/a", "1.0.0")
	first.Bin = map[string]string{"run": "a.js"}
	second := artifact("node_modules/b", "1.0.0")
	second.Bin = map[string]string{"run": "b.js"}

	res, err := assembler.Assemble([]domain.Artifact{first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := res.Bins["run"]; got != "node_modules/b/b.js" {
		t.Errorf("bin target = %q, want the later artifact", got)
	}

	var binCols []domain.MergeCollision
	for _, col := range res.Collisions {
		if strings.HasPrefix(col.At, "bin/") {
			binCols = append(binCols, col)
		}
	}
	if len(binCols) != 1 {
		t.Fatalf("expected 1 bin collision, got %d", len(binCols))
	}
	if binCols[0].Previous != "node_modules/a" || binCols[0].Winner != "node_modules/b" {
		t.Errorf("unexpected collision record: %+v", binCols[0])
	}
}

func TestAssemble_RootPathArtifact(t *testing.T) {
	_, err := assembler.Assemble([]domain.Artifact{{Path: domain.RootPath}})
	if !errors.Is(err, domain.ErrMalformedLockfile) {
		t.Fatalf("expected ErrMalformedLockfile, got %v", err)
	}
}

func TestAssemble_DepthCeiling(t *testing.T) {
	deep := "node_modules/x"
	for range domain.MaxHierarchyDepth {
		deep += "/node_modules/x"
	}

	_, err := assembler.Assemble([]domain.Artifact{artifact(domain.HierarchyPath(deep), "1.0.0")})
	if !errors.Is(err, domain.ErrHierarchyTooDeep) {
		t.Fatalf("expected ErrHierarchyTooDeep, got %v", err)
	}
}
