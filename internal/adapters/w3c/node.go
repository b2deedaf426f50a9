package w3c

import (
	"context"
	"net/http"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/adapters/cas"
	"go.trai.ch/markup/internal/adapters/logger"
	"go.trai.ch/markup/internal/adapters/transport"
	"go.trai.ch/markup/internal/core/ports"
)

// NodeID is the unique identifier for the remote validator Graft node.
const NodeID graft.ID = "adapter.validator.w3c"

func init() {
	graft.Register(graft.Node[*Validator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{transport.NodeID, cas.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Validator, error) {
			client, err := graft.Dep[*http.Client](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := graft.Dep[ports.ResponseCache](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewValidator(client, cache, log), nil
		},
	})
}
