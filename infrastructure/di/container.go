package di

import (
	"io"
	"net/http"

	"photoshare/application/caching"
	"photoshare/application/commands/bus"
	"photoshare/application/ports"
	querybus "photoshare/application/queries/bus"
	"photoshare/application/services"
	"photoshare/infrastructure/config"
	"photoshare/pkg/auth"
	"photoshare/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Repos       *Repositories
	Cache       ports.Cache
	Scheme      *caching.Scheme
	Blobs       ports.BlobStore
	Publisher   ports.EventPublisher
	Metrics     *observability.Metrics
	Tracer      *observability.Tracer
	CommandBus  *bus.CommandBus
	QueryBus    *querybus.QueryBus
	Auth        *services.AuthService
	RateLimiter auth.RateLimiter
	Handler     http.Handler
}

// Close flushes pending metrics, releases the cache connections and
// flushes the logger
func (c *Container) Close() error {
	c.Metrics.Close()
	if closer, ok := c.Cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.Logger.Warn("Failed to close cache", zap.Error(err))
		}
	}
	return c.Logger.Sync()
}
