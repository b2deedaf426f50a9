package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/adapters/config"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewWithFormat(os.Stderr, cfg.LogFormat), nil
		},
	})
}
