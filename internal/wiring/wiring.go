// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/kerntune/internal/adapters/cache"
	_ "go.trai.ch/kerntune/internal/adapters/client"
	_ "go.trai.ch/kerntune/internal/adapters/config"
	_ "go.trai.ch/kerntune/internal/adapters/fs"
	_ "go.trai.ch/kerntune/internal/adapters/generator"
	_ "go.trai.ch/kerntune/internal/adapters/library"
	_ "go.trai.ch/kerntune/internal/adapters/logger"
	_ "go.trai.ch/kerntune/internal/adapters/shell"
	_ "go.trai.ch/kerntune/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/kerntune/internal/app"
	_ "go.trai.ch/kerntune/internal/engine/benchmark"
	_ "go.trai.ch/kerntune/internal/engine/capability"
	_ "go.trai.ch/kerntune/internal/engine/validation"
)
