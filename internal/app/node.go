package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/markup/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/markup/internal/engine/dispatcher"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			dispatcher.NodeID,
			logger.NodeID,
			progrock.NodeID,
			cas.NodeID,
			watcher.NodeID,
			fs.WalkerNodeID,
			config.ConfigNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.ConfigNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	d, err := graft.Dep[*dispatcher.Dispatcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	cache, err := graft.Dep[ports.ResponseCache](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return New(d, log, telemetry, cache, w, walker, cfg), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
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

	return NewComponents(app, log, cfg), nil
}
