package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plank/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plank/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plank/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plank/internal/core/ports"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			cas.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: func(ctx context.Context) (*Planner, error) {
			store, err := graft.Dep[ports.PlanStore](ctx)
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

			return NewPlanner(store, log, tel), nil
		},
	})
}
