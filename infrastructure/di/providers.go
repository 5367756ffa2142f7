package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"photoshare/application/caching"
	"photoshare/application/commands/bus"
	cmdhandlers "photoshare/application/commands/handlers"
	"photoshare/application/ports"
	querybus "photoshare/application/queries/bus"
	queryhandlers "photoshare/application/queries/handlers"
	"photoshare/application/services"
	domainconfig "photoshare/domain/config"
	"photoshare/infrastructure/cache"
	"photoshare/infrastructure/config"
	"photoshare/infrastructure/imaging"
	"photoshare/infrastructure/messaging"
	"photoshare/infrastructure/messaging/eventbridge"
	"photoshare/infrastructure/persistence/dynamodb"
	"photoshare/infrastructure/persistence/memory"
	"photoshare/infrastructure/storage"
	"photoshare/interfaces/http/rest"
	"photoshare/interfaces/http/rest/handlers"
	"photoshare/interfaces/http/rest/middleware"
	"photoshare/pkg/auth"
	pkgerrors "photoshare/pkg/errors"
	"photoshare/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
)

const developmentJWTSecret = "development-secret-change-in-production"

// Repositories groups the Store Adapter ports
type Repositories struct {
	Photos   ports.PhotoRepository
	Comments ports.CommentRepository
	Likes    ports.LikeRepository
	Users    ports.UserRepository
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideDomainConfig returns the business rules for the environment
func ProvideDomainConfig(cfg *config.Config) *domainconfig.DomainConfig {
	return cfg.DomainConfig()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideRepositories selects the Store Adapter
func ProvideRepositories(cfg *config.Config, client *awsdynamodb.Client, logger *zap.Logger) *Repositories {
	if cfg.StoreBackend == "memory" {
		logger.Warn("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &Repositories{
			Photos:   store.Photos(),
			Comments: store.Comments(),
			Likes:    store.Likes(),
			Users:    store.Users(),
		}
	}

	table := dynamodb.TableConfig{
		TableName:  cfg.DynamoDBTable,
		PhotoIndex: cfg.IndexName,
		IDIndex:    cfg.GSI2IndexName,
	}
	return &Repositories{
		Photos:   dynamodb.NewPhotoRepository(client, table, logger),
		Comments: dynamodb.NewCommentRepository(client, table, logger),
		Likes:    dynamodb.NewLikeRepository(client, table, logger),
		Users:    dynamodb.NewUserRepository(client, table, logger),
	}
}

// ProvideRedisPool creates the process-wide pool, or nil when Redis is not used.
// No connection is made until the first command.
func ProvideRedisPool(cfg *config.Config) *redis.Pool {
	if cfg.CacheBackend != "redis" {
		return nil
	}
	return cache.NewRedisPool(cache.RedisConfig{
		Address:        cfg.RedisAddress,
		Password:       cfg.RedisPassword,
		UseTLS:         cfg.RedisTLS,
		ConnectTimeout: cfg.RedisConnectTimeout,
	})
}

// ProvideCache selects the Cache Adapter
func ProvideCache(cfg *config.Config, pool *redis.Pool, logger *zap.Logger) ports.Cache {
	switch cfg.CacheBackend {
	case "redis":
		return cache.NewRedisCache(pool, logger)
	case "none":
		return cache.NewNoopCache()
	default:
		return cache.NewMemoryCache(cache.DefaultMemoryConfig())
	}
}

// ProvideMetrics creates metrics instance. Disabled metrics record nothing.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	namespace := fmt.Sprintf("PhotoShare/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil, logger)
	}
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("photoshare", cfg.EnableTracing)
}

// ProvideCacheScheme creates the cache-versioning scheme
func ProvideCacheScheme(c ports.Cache, metrics *observability.Metrics, logger *zap.Logger) *caching.Scheme {
	return caching.NewScheme(c, logger, metrics)
}

// ProvideBlobStore stores images in S3, or on local disk when no bucket is set
func ProvideBlobStore(cfg *config.Config, client *awss3.Client, logger *zap.Logger) (ports.BlobStore, error) {
	if cfg.PhotoBucket != "" {
		return storage.NewS3BlobStore(client, cfg.PhotoBucket, cfg.AWSRegion, cfg.PhotoBaseURL, logger), nil
	}

	baseURL := cfg.PhotoBaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + cfg.ServerAddress + "/uploads"
		if !strings.HasPrefix(cfg.ServerAddress, ":") {
			baseURL = "http://" + cfg.ServerAddress + "/uploads"
		}
	}
	return storage.NewLocalBlobStore(cfg.LocalUploadDir, baseURL, logger)
}

// ProvideThumbnailer returns nil when thumbnails are disabled
func ProvideThumbnailer(dc *domainconfig.DomainConfig) ports.Thumbnailer {
	if !dc.EnableThumbnails {
		return nil
	}
	return imaging.NewThumbnailer(int(dc.ThumbnailWidth), int(dc.ThumbnailHeight))
}

// ProvideEventPublisher publishes to EventBridge, or only logs when no bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return messaging.NewLogPublisher(logger)
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repos *Repositories,
	blobs ports.BlobStore,
	thumbnailer ports.Thumbnailer,
	scheme *caching.Scheme,
	publisher ports.EventPublisher,
	dc *domainconfig.DomainConfig,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
	)

	err := cmdhandlers.Register(commandBus,
		cmdhandlers.NewPhotoHandler(repos.Photos, blobs, thumbnailer, scheme, publisher, dc, logger),
		cmdhandlers.NewLikeHandler(repos.Likes, repos.Photos, scheme, publisher, logger),
		cmdhandlers.NewCommentHandler(repos.Comments, repos.Photos, publisher, dc, logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register command handlers: %w", err)
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	repos *Repositories,
	scheme *caching.Scheme,
	cfg *config.Config,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.LoggingMiddleware(logger),
		querybus.MetricsMiddleware(metrics),
	)

	policy := queryhandlers.CachePolicy{PhotoTTL: cfg.PhotoCacheTTL, ListTTL: cfg.PhotoListCacheTTL}
	err := queryhandlers.Register(queryBus,
		queryhandlers.NewPhotoQueryHandler(repos.Photos, scheme, policy, logger),
		queryhandlers.NewSocialQueryHandler(repos.Likes, repos.Comments),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register query handlers: %w", err)
	}
	return queryBus, nil
}

// ProvideJWTService creates the session token issuer and verifier
func ProvideJWTService(cfg *config.Config, logger *zap.Logger) (*auth.JWTService, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("JWT_SECRET not set; using the development signing key")
		secret = developmentJWTSecret
	}
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		TTL:       cfg.JWTTTL,
	})
}

// ProvideAuthService creates the account use cases
func ProvideAuthService(
	repos *Repositories,
	tokens *auth.JWTService,
	publisher ports.EventPublisher,
	dc *domainconfig.DomainConfig,
	logger *zap.Logger,
) *services.AuthService {
	return services.NewAuthService(repos.Users, auth.NewBcryptHasher(bcrypt.DefaultCost), tokens, publisher, dc, logger)
}

// ProvideRateLimiter limits across instances through Redis when it is
// configured, otherwise per process
func ProvideRateLimiter(cfg *config.Config, pool *redis.Pool) auth.RateLimiter {
	if pool != nil {
		return auth.NewDistributedRateLimiter(pool, cfg.AuthRateLimit, time.Minute, "auth")
	}
	return auth.NewSlidingWindowLimiter(cfg.AuthRateLimit, time.Minute)
}

// ProvideErrorHandler creates the HTTP error responder
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRouter creates the HTTP router with its readiness checks
func ProvideRouter(
	cfg *config.Config,
	dc *domainconfig.DomainConfig,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	accounts *services.AuthService,
	tokens *auth.JWTService,
	limiter auth.RateLimiter,
	errs *pkgerrors.ErrorHandler,
	blobs ports.BlobStore,
	c ports.Cache,
	dynamo *awsdynamodb.Client,
	logger *zap.Logger,
) *rest.Router {
	routerCfg := rest.RouterConfig{
		EnableCORS:           cfg.EnableCORS,
		AllowedOrigins:       cfg.CORSAllowedOrigins,
		TrustIdentityHeaders: cfg.TrustIdentityHeaders,
		AuthRateLimit:        middleware.RateLimitConfig{Limit: cfg.AuthRateLimit, Window: time.Minute},
	}
	if local, ok := blobs.(*storage.LocalBlobStore); ok {
		routerCfg.UploadsDir = local.Dir()
	}

	router := rest.NewRouter(commandBus, queryBus, accounts, tokens, limiter, errs, dc, routerCfg, logger)

	if cfg.StoreBackend == "dynamodb" {
		router.WithReadinessCheck(handlers.ReadinessCheck{
			Name:     "dynamodb",
			Critical: true,
			Check: func(ctx context.Context) error {
				_, err := dynamo.DescribeTable(ctx, &awsdynamodb.DescribeTableInput{TableName: aws.String(cfg.DynamoDBTable)})
				return err
			},
		})
	}
	if pinger, ok := c.(interface{ Ping(context.Context) error }); ok {
		router.WithReadinessCheck(handlers.ReadinessCheck{Name: "cache", Check: pinger.Ping})
	}
	return router
}

// ProvideHTTPHandler builds the routes
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}
