//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"meetsync/infrastructure/config"
)

// InitializeContainer assembles the application from configuration
func InitializeContainer(cfg config.Config) (*Container, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideCollector,
		ProvideJWTService,
		ProvideRepositories,
		ProvideHub,
		ProvidePublisher,
		ProvideParticipantRegistry,
		ProvideMeetingService,
		ProvideTaskService,
		ProvideAuthService,
		ProvideWebSocketServer,
		ProvideRouter,
		ProvideContainer,
	)
	return nil, nil, nil
}
