package transport

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/adapters/config"
	"go.trai.ch/markup/internal/core/domain"
)

// NodeID is the unique identifier for the shared HTTP client Graft node.
const NodeID graft.ID = "adapter.http_client"

func init() {
	graft.Register(graft.Node[*http.Client]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*http.Client, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewClient(cfg), nil
		},
	})
}
