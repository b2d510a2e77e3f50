// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/plank/internal/adapters/cas"
	_ "go.trai.ch/plank/internal/adapters/config"
	_ "go.trai.ch/plank/internal/adapters/lockfile"
	_ "go.trai.ch/plank/internal/adapters/logger"
	_ "go.trai.ch/plank/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/plank/internal/app"
	_ "go.trai.ch/plank/internal/engine/planner"
)
