// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/plank/internal/core/domain"

// LockfileLoader defines the interface for loading and parsing the
// project lockfile.
//
//go:generate go run go.uber.org/mock/mockgen -source=lockfile_loader.go -destination=mocks/mock_lockfile_loader.go -package=mocks
type LockfileLoader interface {
	// Load reads the lockfile from the given working directory and
	// returns the parsed, immutable package index. Dev-only entries are
	// filtered out unless includeDev is set.
	Load(cwd string, includeDev bool) (*domain.Index, error)
}
