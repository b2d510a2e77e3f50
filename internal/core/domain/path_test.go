package domain_test

import (
	"slices"
	"testing"

	"go.trai.ch/plank/internal/core/domain"
)

func TestHierarchyPath_Segments(t *testing.T) {
	tests := []struct {
		name string
		path domain.HierarchyPath
		want []string
	}{
		{name: "root has no segments", path: domain.RootPath, want: nil},
		{name: "top level package", path: "node_modules/a", want: []string{"node_modules", "a"}},
		{name: "nested package", path: "node_modules/a/node_modules/b", want: []string{"node_modules", "a", "node_modules", "b"}},
		{name: "workspace dir", path: "packages/app", want: []string{"packages", "app"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.path.Segments()
			if !slices.Equal(got, tt.want) {
				t.Errorf("Segments() = %v, want %v", got, tt.want)
			}
			if tt.path.Depth() != len(tt.want) {
				t.Errorf("Depth() = %d, want %d", tt.path.Depth(), len(tt.want))
			}
		})
	}
}

func TestHierarchyPath_ModuleChild(t *testing.T) {
	if got := domain.RootPath.ModuleChild("a"); got != "node_modules/a" {
		t.Errorf("root ModuleChild = %q", got)
	}

	p := domain.HierarchyPath("node_modules/a")
	if got := p.ModuleChild("b"); got != "node_modules/a/node_modules/b" {
		t.Errorf("nested ModuleChild = %q", got)
	}

	// Scoped names contribute two path segments.
	if got := p.ModuleChild("@scope/c"); got != "node_modules/a/node_modules/@scope/c" {
		t.Errorf("scoped ModuleChild = %q", got)
	}
}

func TestHierarchyPath_Ancestors(t *testing.T) {
	p := domain.HierarchyPath("node_modules/a/node_modules/b")

	var got []domain.HierarchyPath
	for anc := range p.Ancestors() {
		got = append(got, anc)
	}

	want := []domain.HierarchyPath{
		"node_modules/a/node_modules/b",
		"node_modules/a/node_modules",
		"node_modules/a",
		"node_modules",
		domain.RootPath,
	}
	if !slices.Equal(got, want) {
		t.Errorf("Ancestors() = %v, want %v", got, want)
	}
}

func TestHierarchyPath_Ancestors_Root(t *testing.T) {
	var got []domain.HierarchyPath
	for anc := range domain.RootPath.Ancestors() {
		got = append(got, anc)
	}
	if len(got) != 1 || !got[0].IsRoot() {
		t.Errorf("root Ancestors() = %v, want just the root", got)
	}
}

func TestHierarchyPath_PackageName(t *testing.T) {
	tests := []struct {
		path domain.HierarchyPath
		want string
	}{
		{path: "node_modules/a", want: "a"},
		{path: "node_modules/a/node_modules/b", want: "b"},
		{path: "node_modules/@scope/pkg", want: "@scope/pkg"},
		{path: "packages/app", want: ""},
		{path: domain.RootPath, want: ""},
	}

	for _, tt := range tests {
		if got := tt.path.PackageName(); got != tt.want {
			t.Errorf("PackageName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestHierarchyPath_Parent(t *testing.T) {
	p := domain.HierarchyPath("node_modules/a/node_modules/b")
	if got := p.Parent(); got != "node_modules/a/node_modules" {
		t.Errorf("Parent() = %q", got)
	}
	if got := domain.HierarchyPath("node_modules").Parent(); !got.IsRoot() {
		t.Errorf("Parent of single segment = %q, want root", got)
	}
}
