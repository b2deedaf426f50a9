// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/markup/internal/adapters/cas"
	_ "go.trai.ch/markup/internal/adapters/catalog"
	_ "go.trai.ch/markup/internal/adapters/config"
	_ "go.trai.ch/markup/internal/adapters/fs"
	_ "go.trai.ch/markup/internal/adapters/logger"
	_ "go.trai.ch/markup/internal/adapters/shell"
	_ "go.trai.ch/markup/internal/adapters/telemetry"
	_ "go.trai.ch/markup/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/markup/internal/adapters/transport"
	_ "go.trai.ch/markup/internal/adapters/w3c"
	_ "go.trai.ch/markup/internal/adapters/watcher"
	_ "go.trai.ch/markup/internal/adapters/xmllint"
	// Register app and engine nodes.
	_ "go.trai.ch/markup/internal/app"
	_ "go.trai.ch/markup/internal/engine/dispatcher"
)
