package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/adapters/config"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
)

// NodeID is the unique identifier for the response cache Graft node.
const NodeID graft.ID = "adapter.response_cache"

func init() {
	graft.Register(graft.Node[ports.ResponseCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.ResponseCache, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			store, err := NewStore(cfg.CacheDir)
			if err != nil {
				return nil, err
			}
			return store, nil
		},
	})
}
