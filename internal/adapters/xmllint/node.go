package xmllint

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/adapters/catalog"
	"go.trai.ch/markup/internal/adapters/config"
	"go.trai.ch/markup/internal/adapters/logger"
	"go.trai.ch/markup/internal/adapters/shell"
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
)

// NodeID is the unique identifier for the local validator Graft node.
const NodeID graft.ID = "adapter.validator.local"

func init() {
	graft.Register(graft.Node[*Validator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			catalog.ManagerNodeID,
			catalog.FetcherNodeID,
			logger.NodeID,
			config.ConfigNodeID,
		},
		Run: func(ctx context.Context) (*Validator, error) {
			runner, err := graft.Dep[ports.CommandRunner](ctx)
			if err != nil {
				return nil, err
			}
			manager, err := graft.Dep[ports.CatalogManager](ctx)
			if err != nil {
				return nil, err
			}
			fetcher, err := graft.Dep[ports.ResourceFetcher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewValidator(runner, manager, fetcher, log, cfg.Tools.XMLLint), nil
		},
	})
}
