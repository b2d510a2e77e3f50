package ports

import "go.trai.ch/plank/internal/core/domain"

// ConfigLoader defines the interface for loading the planner
// configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory.
	// A missing configuration file yields the defaults, not an error.
	Load(cwd string) (*domain.ProjectConfig, error)
}
