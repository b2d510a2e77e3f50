package domain_test

import (
	"bytes"
	"testing"

	"go.trai.ch/plank/internal/core/domain"
)

func TestFlatten_BaseBeforeNested(t *testing.T) {
	base := artifact("node_modules/a")
	nested := artifact("node_modules/a/node_modules/b")
	nested.Method = domain.MethodCopy

	root := &domain.ModuleTreeNode{}
	domain.Merge(root, chain(base))
	domain.Merge(root, chain(nested))

	steps := domain.Flatten(root)

	// node_modules is a grouping dir, then the base link, then the
	// nested grouping dir and the overlay copy.
	wantOps := []domain.InstructionOp{domain.OpDir, domain.OpLink, domain.OpDir, domain.OpCopy}
	wantTargets := []string{
		"node_modules",
		"node_modules/a",
		"node_modules/a/node_modules",
		"node_modules/a/node_modules/b",
	}

	if len(steps) != len(wantOps) {
		t.Fatalf("expected %d instructions, got %d: %v", len(wantOps), len(steps), steps)
	}
	for i := range steps {
		if steps[i].Op != wantOps[i] {
			t.Errorf("step %d op = %s, want %s", i, steps[i].Op, wantOps[i])
		}
		if steps[i].Target != wantTargets[i] {
			t.Errorf("step %d target = %q, want %q", i, steps[i].Target, wantTargets[i])
		}
	}
}

func TestPlan_EncodeDeterministic(t *testing.T) {
	build := func() *domain.Plan {
		art := artifact("node_modules/a")
		root := &domain.ModuleTreeNode{}
		domain.Merge(root, chain(art))
		return &domain.Plan{
			LockfileDigest: "digest",
			Packages:       []domain.Artifact{*art},
			Root:           root,
			Instructions:   domain.Flatten(root),
			Bins:           map[string]string{"a": "node_modules/a/cli.js", "b": "node_modules/a/b.js"},
		}
	}

	first, err := build().Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	second, err := build().Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("expected byte-identical encodings for identical plans")
	}
}
