package catalog

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/adapters/config"
	"go.trai.ch/markup/internal/adapters/shell"
	"go.trai.ch/markup/internal/adapters/transport"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
)

const (
	// ManagerNodeID is the unique identifier for the catalog manager Graft node.
	ManagerNodeID graft.ID = "adapter.catalog_manager"
	// FetcherNodeID is the unique identifier for the resource fetcher Graft node.
	FetcherNodeID graft.ID = "adapter.resource_fetcher"
)

func init() {
	graft.Register(graft.Node[ports.CatalogManager]{
		ID:        ManagerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.CatalogManager, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(runner, cfg.Tools.XMLCatalog), nil
		},
	})

	graft.Register(graft.Node[ports.ResourceFetcher]{
		ID:        FetcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{transport.NodeID},
		Run: func(ctx context.Context) (ports.ResourceFetcher, error) {
			client, err := graft.Dep[*http.Client](ctx)
			if err != nil {
				return nil, err
			}
			return NewFetcher(client), nil
		},
	})
}
