package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plank/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/plank/internal/adapters/lockfile"  //nolint:depguard // Wired in app layer
	"go.trai.ch/plank/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/plank/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/plank/internal/core/ports"
	"go.trai.ch/plank/internal/engine/planner"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			lockfile.NodeID,
			logger.NodeID,
			planner.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			configLoader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			lockfiles, err := graft.Dep[ports.LockfileLoader](ctx)
			if err != nil {
				return nil, err
			}

			p, err := graft.Dep[*planner.Planner](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(configLoader, lockfiles, p, log), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log, tel), nil
		},
	})
}
