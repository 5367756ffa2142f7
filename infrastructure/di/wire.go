//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"photoshare/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideS3Client,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideRepositories,
	ProvideRedisPool,
	ProvideCache,
	ProvideMetrics,
	ProvideTracer,
	ProvideCacheScheme,
	ProvideBlobStore,
	ProvideThumbnailer,
	ProvideEventPublisher,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideJWTService,
	ProvideAuthService,
	ProvideRateLimiter,
	ProvideErrorHandler,
	ProvideRouter,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
