//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"echoclient/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideCredentialStore,
	ProvideFeedCache,
	ProvideAPIClient,
	ProvideSessionStore,
	ProvideSessionService,
	ProvideFeedSynchronizer,
	ProvideFeedScreen,
)

// InitializeContainer builds the full dependency graph for the client
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(
		SuperSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}
