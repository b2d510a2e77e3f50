package ports

import "go.trai.ch/plank/internal/core/domain"

// PlanStore defines the interface for memoizing computed plans by
// (lockfile digest, target, override fingerprint) key.
//
//go:generate go run go.uber.org/mock/mockgen -source=plan_store.go -destination=mocks/mock_plan_store.go -package=mocks
type PlanStore interface {
	// Get retrieves the plan info for a given key.
	// Returns nil, nil if not found.
	Get(key string) (*domain.PlanInfo, error)

	// Put stores the plan info.
	Put(info domain.PlanInfo) error
}
