package dispatcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/markup/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/markup/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/markup/internal/adapters/w3c"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/markup/internal/adapters/xmllint"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/markup/internal/core/domain"
)

// NodeID is the unique identifier for the dispatcher Graft node.
const NodeID graft.ID = "engine.dispatcher"

func init() {
	graft.Register(graft.Node[*Dispatcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			xmllint.NodeID,
			w3c.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Dispatcher, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			local, err := graft.Dep[*xmllint.Validator](ctx)
			if err != nil {
				return nil, err
			}

			remote, err := graft.Dep[*w3c.Validator](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[trace.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg.Defaults, local, remote, tracer), nil
		},
	})
}
