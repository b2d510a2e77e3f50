package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.trai.ch/plank/internal/adapters/telemetry"
	"go.trai.ch/plank/internal/app"
	"go.trai.ch/plank/internal/core/domain"
	"go.trai.ch/plank/internal/core/ports/mocks"
	"go.trai.ch/plank/internal/engine/planner"
	"go.uber.org/mock/gomock"
)

func record(path domain.HierarchyPath, version string) domain.PackageRecord {
	return domain.PackageRecord{
		Path:    path,
		Name:    domain.NewInternedString(path.PackageName()),
		Version: domain.NewInternedString(version),
		Source:  domain.SourceLocator{Resolved: "https://registry.example/" + string(path), Integrity: "sha512-x"},
	}
}

func localRecord(path domain.HierarchyPath, name string) domain.PackageRecord {
	return domain.PackageRecord{
		Path:    path,
		Name:    domain.NewInternedString(name),
		Version: domain.NewInternedString("0.1.0"),
		Source:  domain.SourceLocator{Resolved: string(path)},
	}
}

func simpleIndex(t *testing.T) *domain.Index {
	t.Helper()
	idx, err := domain.NewIndex(
		[]domain.PackageRecord{record("node_modules/a", "1.0.0")},
		[]domain.DependencyEdge{{From: "", Name: domain.NewInternedString("a")}},
		nil,
		"lock",
	)
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	return idx
}

func workspaceIndex(t *testing.T, extraEdges ...domain.DependencyEdge) *domain.Index {
	t.Helper()
	edges := append([]domain.DependencyEdge{
		{From: "packages/app", Name: domain.NewInternedString("lib")},
	}, extraEdges...)
	idx, err := domain.NewIndex(
		[]domain.PackageRecord{
			localRecord("packages/lib", "lib"),
			localRecord("packages/app", "app"),
		},
		edges,
		[]domain.Workspace{
			{Path: "packages/lib", Name: domain.NewInternedString("lib")},
			{Path: "packages/app", Name: domain.NewInternedString("app")},
		},
		"lock",
	)
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	return idx
}

func newApp(t *testing.T, ctrl *gomock.Controller, cfg *domain.ProjectConfig, idx *domain.Index) *app.App {
	t.Helper()

	mockConfig := mocks.NewMockConfigLoader(ctrl)
	mockConfig.EXPECT().Load(".").Return(cfg, nil).Times(1)

	mockLock := mocks.NewMockLockfileLoader(ctrl)
	mockLock.EXPECT().Load(".", cfg.IncludeDev).Return(idx, nil).Times(1)

	mockStore := mocks.NewMockPlanStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	mockStore.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()

	mockLog := mocks.NewMockLogger(ctrl)
	mockLog.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	mockLog.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	p := planner.NewPlanner(mockStore, mockLog, telemetry.NewNoOp())
	return app.New(mockConfig, mockLock, p, mockLog)
}

func testConfig(t *testing.T) *domain.ProjectConfig {
	t.Helper()
	return &domain.ProjectConfig{
		Method: domain.MethodLink,
		OutDir: filepath.Join(t.TempDir(), "plans"),
	}
}

func TestPlan_RootWithoutWorkspaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig(t)
	a := newApp(t, ctrl, cfg, simpleIndex(t))

	if err := a.Plan(context.Background(), nil, app.PlanOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutDir, "plan-root.json")); err != nil {
		t.Errorf("expected root plan document: %v", err)
	}
}

func TestPlan_DefaultsToAllWorkspaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig(t)
	a := newApp(t, ctrl, cfg, workspaceIndex(t))

	if err := a.Plan(context.Background(), nil, app.PlanOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, file := range []string{"plan-packages-lib.json", "plan-packages-app.json"} {
		if _, err := os.Stat(filepath.Join(cfg.OutDir, file)); err != nil {
			t.Errorf("expected plan document %s: %v", file, err)
		}
	}
}

func TestPlan_TargetByName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig(t)
	a := newApp(t, ctrl, cfg, workspaceIndex(t))

	if err := a.Plan(context.Background(), []string{"lib"}, app.PlanOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(cfg.OutDir, "plan-packages-lib.json")); err != nil {
		t.Errorf("expected lib plan document: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutDir, "plan-packages-app.json")); err == nil {
		t.Error("did not expect app plan document")
	}
}

func TestPlan_UnknownTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := newApp(t, ctrl, testConfig(t), workspaceIndex(t))

	err := a.Plan(context.Background(), []string{"ghost"}, app.PlanOptions{})
	if !errors.Is(err, domain.ErrUnknownWorkspace) {
		t.Fatalf("expected ErrUnknownWorkspace, got %v", err)
	}
}

func TestPlan_BlankTargets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := newApp(t, ctrl, testConfig(t), workspaceIndex(t))

	err := a.Plan(context.Background(), []string{"  "}, app.PlanOptions{})
	if !errors.Is(err, domain.ErrNoTargetsSpecified) {
		t.Fatalf("expected ErrNoTargetsSpecified, got %v", err)
	}
}

func TestPlan_CyclicWorkspaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	idx := workspaceIndex(t, domain.DependencyEdge{
		From: "packages/lib",
		Name: domain.NewInternedString("app"),
	})
	a := newApp(t, ctrl, testConfig(t), idx)

	err := a.Plan(context.Background(), nil, app.PlanOptions{})
	if !errors.Is(err, domain.ErrCyclicWorkspaceDependency) {
		t.Fatalf("expected ErrCyclicWorkspaceDependency, got %v", err)
	}
}

func TestPlan_ConfigLoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockConfig := mocks.NewMockConfigLoader(ctrl)
	mockConfig.EXPECT().Load(".").Return(nil, errors.New("config load error")).Times(1)

	mockStore := mocks.NewMockPlanStore(ctrl)
	mockLog := mocks.NewMockLogger(ctrl)
	p := planner.NewPlanner(mockStore, mockLog, telemetry.NewNoOp())

	a := app.New(mockConfig, mocks.NewMockLockfileLoader(ctrl), p, mockLog)

	if err := a.Plan(context.Background(), nil, app.PlanOptions{}); err == nil {
		t.Fatal("expected error")
	}
}
