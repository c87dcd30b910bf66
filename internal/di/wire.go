//go:build wireinject
// +build wireinject

package di

import (
	"GFQuant/pkg/config"
	"GFQuant/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCacheStore,

		// Repositories
		ProvideSignalStore,
		ProvidePublisher,
		ProvideBarSource,
		ProvideTickStream,

		// Domain engines
		ProvideEngines,
		ProvideNatalBook,
		ProvideShifter,
		ProvideSignalEngine,
		ProvideScorer,
		ProvideHorizons,

		// Use cases
		ProvidePipeline,
		ProvideScheduler,
		ProvideCollector,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
