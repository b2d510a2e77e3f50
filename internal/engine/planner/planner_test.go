package planner_test

import (
	"bytes"
	"context"
	"testing"

	"go.trai.ch/plank/internal/adapters/telemetry"
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

func testIndex(t *testing.T) *domain.Index {
	t.Helper()
	idx, err := domain.NewIndex(
		[]domain.PackageRecord{
			record("node_modules/a", "1.0.0"),
			record("node_modules/b", "1.0.0"),
		},
		[]domain.DependencyEdge{
			{From: "", Name: domain.NewInternedString("a")},
			{From: "node_modules/a", Name: domain.NewInternedString("b")},
		},
		nil,
		"lockdigest",
	)
	if err != nil {
		t.Fatalf("failed to build index: %v", err)
	}
	return idx
}

func testConfig() *domain.ProjectConfig {
	return &domain.ProjectConfig{
		Method: domain.MethodLink,
		OutDir: ".plank",
	}
}

func TestPlanTarget_Deterministic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockPlanStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	mockStore.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()
	mockLog := mocks.NewMockLogger(ctrl)
	mockLog.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	p := planner.NewPlanner(mockStore, mockLog, telemetry.NewNoOp())

	first, _, err := p.PlanTarget(context.Background(), testIndex(t), testConfig(), domain.RootPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := p.PlanTarget(context.Background(), testIndex(t), testConfig(), domain.RootPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstEnc, err := first.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	secondEnc, err := second.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if !bytes.Equal(firstEnc, secondEnc) {
		t.Error("expected byte-identical plans for identical inputs")
	}

	if first.LockfileDigest != "lockdigest" {
		t.Errorf("LockfileDigest = %q", first.LockfileDigest)
	}
	if len(first.Packages) != 2 {
		t.Errorf("expected 2 packages, got %d", len(first.Packages))
	}
	if len(first.Instructions) == 0 {
		t.Error("expected instructions")
	}
}

func TestPlanTarget_Memoization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockPlanStore(ctrl)
	mockLog := mocks.NewMockLogger(ctrl)
	mockLog.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	var stored *domain.PlanInfo
	mockStore.EXPECT().Get(gomock.Any()).DoAndReturn(func(string) (*domain.PlanInfo, error) {
		return stored, nil
	}).Times(2)
	mockStore.EXPECT().Put(gomock.Any()).DoAndReturn(func(info domain.PlanInfo) error {
		stored = &info
		return nil
	}).Times(1)

	p := planner.NewPlanner(mockStore, mockLog, telemetry.NewNoOp())

	// First run is a miss and records the plan.
	_, cached, err := p.PlanTarget(context.Background(), testIndex(t), testConfig(), domain.RootPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("expected first run to be a cache miss")
	}

	// Second run with unchanged inputs is a hit and skips Put.
	_, cached, err = p.PlanTarget(context.Background(), testIndex(t), testConfig(), domain.RootPath, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Error("expected second run to be cached")
	}
}

func TestPlanTarget_WorkspaceOrderCarried(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := mocks.NewMockPlanStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any()).Return(nil, nil).AnyTimes()
	mockStore.EXPECT().Put(gomock.Any()).Return(nil).AnyTimes()
	mockLog := mocks.NewMockLogger(ctrl)
	mockLog.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	p := planner.NewPlanner(mockStore, mockLog, telemetry.NewNoOp())

	order := []domain.Workspace{
		{Path: "packages/lib", Name: domain.NewInternedString("lib")},
		{Path: "packages/app", Name: domain.NewInternedString("app")},
	}
	plan, _, err := p.PlanTarget(context.Background(), testIndex(t), testConfig(), domain.RootPath, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.WorkspaceOrder) != 2 || plan.WorkspaceOrder[0] != "packages/lib" || plan.WorkspaceOrder[1] != "packages/app" {
		t.Errorf("unexpected workspace order: %v", plan.WorkspaceOrder)
	}
}
